package repository

import (
	"errors"
	"fmt"

	"github.com/user/cinelens/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// FindByMLID 根据 MovieLens ID 查找电影
func (r *MovieRepository) FindByMLID(mlID int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("ml_id = ?", mlID).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// UpsertByMLID 按 MovieLens ID 创建或更新电影
// 关系字段为 nil 时保留现有关联；并发插入冲突时退化为更新重试
func (r *MovieRepository) UpsertByMLID(input *model.MovieUpsert) (*model.Movie, error) {
	movie, err := r.FindByMLID(input.MLID)
	if err != nil {
		return nil, err
	}

	if movie == nil {
		movie, err = r.create(input)
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		// 另一个写入者抢先创建了相同 ml_id，读回后走更新路径
		movie, err = r.FindByMLID(input.MLID)
		if err != nil {
			return nil, err
		}
		if movie == nil {
			return nil, fmt.Errorf("ml_id=%d 冲突后未找到记录", input.MLID)
		}
	}

	return r.update(movie, input)
}

// create 新建电影及其关联
func (r *MovieRepository) create(input *model.MovieUpsert) (*model.Movie, error) {
	movie := &model.Movie{
		MLID:        input.MLID,
		TMDBID:      input.TMDBID,
		Title:       input.Title,
		ReleaseYear: input.ReleaseYear,
		Description: input.Description,
		Rating:      input.Rating,
		RatingCount: input.RatingCount,
		PosterURL:   input.PosterURL,
	}
	if input.Director != nil {
		movie.DirectorID = &input.Director.ID
	}

	// 关联通过 Association 单独写入，避免 gorm 级联重建实体
	if err := r.db.Omit("Actors", "Genres", "Director").Create(movie).Error; err != nil {
		return nil, err
	}

	if input.Actors != nil {
		if err := r.db.Model(movie).Association("Actors").Replace(toPointers(input.Actors)...); err != nil {
			return nil, err
		}
	}
	if input.Genres != nil {
		if err := r.db.Model(movie).Association("Genres").Replace(toPointers(input.Genres)...); err != nil {
			return nil, err
		}
	}

	return movie, nil
}

// update 覆盖标量字段，仅替换显式提供的关联
func (r *MovieRepository) update(movie *model.Movie, input *model.MovieUpsert) (*model.Movie, error) {
	movie.TMDBID = input.TMDBID
	movie.Title = input.Title
	movie.ReleaseYear = input.ReleaseYear
	movie.Description = input.Description
	movie.Rating = input.Rating
	movie.RatingCount = input.RatingCount
	movie.PosterURL = input.PosterURL
	if input.Director != nil {
		movie.DirectorID = &input.Director.ID
	}

	err := r.db.Model(movie).
		Select("tmdb_id", "title", "release_year", "description",
			"rating", "rating_count", "poster_url", "director_id").
		Updates(movie).Error
	if err != nil {
		return nil, err
	}

	if input.Actors != nil {
		if err := r.db.Model(movie).Association("Actors").Replace(toPointers(input.Actors)...); err != nil {
			return nil, err
		}
	}
	if input.Genres != nil {
		if err := r.db.Model(movie).Association("Genres").Replace(toPointers(input.Genres)...); err != nil {
			return nil, err
		}
	}

	return movie, nil
}

// toPointers Association.Replace 需要逐个传入指针
func toPointers[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
