package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/user/cinelens/internal/config"
	"github.com/user/cinelens/internal/model"
	"github.com/user/cinelens/internal/utils"
)

// Catalog 目录写入接口，由 repository 实现
// 不做并发，流水线单线程顺序写入，并发安全由各操作自身保证
type Catalog interface {
	ResolveGenre(name string) (*model.Genre, error)
	ResolveDirector(name, bio string) (*model.Director, error)
	ResolveActor(name, bio string, personID *int, profileURL string) (*model.Actor, error)
	UpsertMovie(input *model.MovieUpsert) (*model.Movie, error)
}

// Result 一次批量导入的结果
type Result struct {
	Processed int // 成功入库的行数
	Skipped   int // 跳过的坏行/失败行数
}

// Seeder MovieLens 导入流水线
type Seeder struct {
	catalog  Catalog
	enricher Enricher
	cfg      *config.Config
}

// NewSeeder 创建导入流水线
func NewSeeder(catalog Catalog, enricher Enricher, cfg *config.Config) *Seeder {
	return &Seeder{
		catalog:  catalog,
		enricher: enricher,
		cfg:      cfg,
	}
}

// Run 执行一次完整导入
// 先聚合评分日志，再逐行处理电影文件；单行失败只跳过该行
// 仅电影文件本身不可读时整体失败
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	moviesPath := filepath.Join(s.cfg.DataDir, s.cfg.MoviesFile)
	ratingsPath := filepath.Join(s.cfg.DataDir, s.cfg.RatingsFile)

	// 1. 聚合评分（缺失则降级为空）
	stats := AggregateRatings(ratingsPath)

	// 2. 打开电影文件，失败是致命错误
	file, err := os.Open(moviesPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开电影文件 %s: %w", moviesPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取电影文件表头失败: %w", err)
	}

	idCol := findColumn(header, "movieId")
	titleCol := findColumn(header, "title")
	genresCol := findColumn(header, "genres")
	if idCol < 0 || titleCol < 0 || genresCol < 0 {
		return nil, fmt.Errorf("电影文件缺少 movieId/title/genres 列")
	}

	// 3. 逐行处理
	result := &Result{}
	for {
		// 仅在行与行之间响应取消
		if err := ctx.Err(); err != nil {
			return result, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[Seeder] 跳过坏行: %v", err)
			result.Skipped++
			continue
		}
		if len(record) <= idCol || len(record) <= titleCol || len(record) <= genresCol {
			result.Skipped++
			continue
		}

		if err := s.ingestRow(ctx, record[idCol], record[titleCol], record[genresCol], stats); err != nil {
			log.Printf("[Seeder] 导入行失败 (movieId=%s): %v", record[idCol], err)
			result.Skipped++
			continue
		}

		result.Processed++
		if result.Processed%50 == 0 {
			log.Printf("[Seeder] 已处理 %d 部电影...", result.Processed)
		}
	}

	log.Printf("[Seeder] 导入完成: 成功 %d 部, 跳过 %d 行", result.Processed, result.Skipped)
	return result, nil
}

// ingestRow 处理单行电影记录
// 行内任何错误向上返回，由调用方记录并跳过该行
func (s *Seeder) ingestRow(ctx context.Context, rawID, rawTitle, rawGenres string, stats map[int]RatingStat) (err error) {
	// 行级兜底，单行 panic 不中断批次
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("处理发生恐慌: %v", r)
		}
	}()

	mlID, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("非法 movieId %q: %w", rawID, err)
	}

	// 1. 解析标题、年份、类型
	title, year := utils.ExtractTitleYear(rawTitle)
	genreNames := utils.ParseGenres(rawGenres)

	// 2. 解析类型实体
	// 源数据总是给出类型列（可能为空集），所以这里始终整体替换关联
	genres := make([]model.Genre, 0, len(genreNames))
	for _, name := range genreNames {
		genre, err := s.catalog.ResolveGenre(name)
		if err != nil {
			return err
		}
		genres = append(genres, *genre)
	}

	// 3. 外部补全（失败降级为无补全）
	enrichment, err := s.enricher.Enrich(ctx, title, year)
	if err != nil {
		log.Printf("[Seeder] 补全失败，使用占位数据 (movieId=%d, title=%q): %v", mlID, title, err)
		enrichment = nil
	}

	var tmdbID *int
	posterURL := ""
	var director *model.Director
	actors := make([]model.Actor, 0, tmdbCastLimit)

	if enrichment != nil {
		id := enrichment.TMDBID
		tmdbID = &id
		posterURL = enrichment.PosterURL

		if enrichment.Director != nil {
			director, err = s.catalog.ResolveDirector(enrichment.Director.Name, "")
			if err != nil {
				return err
			}
		}
		for _, member := range enrichment.Cast {
			personID := member.TMDBPersonID
			actor, err := s.catalog.ResolveActor(member.Name, "", &personID, member.ProfileURL)
			if err != nil {
				return err
			}
			actors = append(actors, *actor)
		}
	}

	// 4. 占位回退：没有导演则合成；演员仅在补全也没给出时才合成
	if director == nil {
		director, err = s.catalog.ResolveDirector(PlaceholderDirector(mlID), "Placeholder director")
		if err != nil {
			return err
		}
		if len(actors) == 0 {
			for _, name := range PlaceholderActors(mlID, s.cfg.PlaceholderCastSize) {
				actor, err := s.catalog.ResolveActor(name, "Placeholder actor", nil, "")
				if err != nil {
					return err
				}
				actors = append(actors, *actor)
			}
		}
	}

	// 5. 评分与描述
	var rating *float64
	ratingCount := 0
	if stat, ok := stats[mlID]; ok {
		avg := stat.Avg
		rating = &avg
		ratingCount = stat.Count
	}

	description := "A classic film"
	if year != nil {
		description = fmt.Sprintf(s.cfg.DescriptionTemplate, *year)
	}

	// 6. 入库
	_, err = s.catalog.UpsertMovie(&model.MovieUpsert{
		MLID:        mlID,
		Title:       title,
		ReleaseYear: year,
		Description: description,
		Rating:      rating,
		RatingCount: ratingCount,
		PosterURL:   posterURL,
		TMDBID:      tmdbID,
		Director:    director,
		Actors:      actors,
		Genres:      genres,
	})
	if err != nil {
		return fmt.Errorf("电影入库失败: %w", err)
	}

	return nil
}
