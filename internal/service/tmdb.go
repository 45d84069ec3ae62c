package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	tmdbBaseURL    = "https://api.themoviedb.org/3"
	tmdbPosterBase = "https://image.tmdb.org/t/p/w500"
	tmdbAvatarBase = "https://image.tmdb.org/t/p/w185"

	// 最多取前 8 位演员
	tmdbCastLimit = 8
)

// CreditPerson 外部元数据中的人物
type CreditPerson struct {
	TMDBPersonID int
	Name         string
	ProfileURL   string
}

// Enrichment 一部电影的外部补全结果
type Enrichment struct {
	TMDBID    int
	PosterURL string
	Director  *CreditPerson
	Cast      []CreditPerson
}

// Enricher 元数据补全接口
// 返回 (nil, nil) 表示没有可用补全；错误由调用方降级处理，绝不中断批次
type Enricher interface {
	Enrich(ctx context.Context, title string, year *int) (*Enrichment, error)
}

// NoopEnricher 未配置 API Key 时的空实现，流水线走纯占位路径
type NoopEnricher struct{}

func (NoopEnricher) Enrich(ctx context.Context, title string, year *int) (*Enrichment, error) {
	return nil, nil
}

// TMDBEnricher 基于 TMDB API 的补全客户端
// 所有请求经过固定间隔的限流，遵守远端的调用频率要求
type TMDBEnricher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewTMDBEnricher 创建 TMDB 补全客户端，delay 为相邻请求的最小间隔
func NewTMDBEnricher(apiKey string, delay time.Duration) *TMDBEnricher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &TMDBEnricher{
		apiKey:  apiKey,
		baseURL: tmdbBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Enrich 按标题和年份补全电影元数据
// 取搜索结果的第一条为准；第一位 Job 为 Director 的剧组成员作为导演
func (e *TMDBEnricher) Enrich(ctx context.Context, title string, year *int) (*Enrichment, error) {
	match, err := e.searchMovie(ctx, title, year)
	if err != nil {
		return nil, fmt.Errorf("TMDB 搜索失败: %w", err)
	}
	if match == nil {
		return nil, nil
	}

	enrichment := &Enrichment{TMDBID: match.ID}
	if match.PosterPath != "" {
		enrichment.PosterURL = tmdbPosterBase + match.PosterPath
	}

	credits, err := e.fetchCredits(ctx, match.ID)
	if err != nil {
		// 演职员获取失败只损失导演/演员，保留搜索到的基础信息
		log.Printf("[TMDB] 获取演职员失败 (tmdb_id=%d): %v", match.ID, err)
		return enrichment, nil
	}

	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			enrichment.Director = &CreditPerson{
				TMDBPersonID: crew.ID,
				Name:         crew.Name,
			}
			break
		}
	}

	cast := credits.Cast
	if len(cast) > tmdbCastLimit {
		cast = cast[:tmdbCastLimit]
	}
	for _, member := range cast {
		person := CreditPerson{
			TMDBPersonID: member.ID,
			Name:         member.Name,
		}
		if member.ProfilePath != "" {
			person.ProfileURL = tmdbAvatarBase + member.ProfilePath
		}
		enrichment.Cast = append(enrichment.Cast, person)
	}

	return enrichment, nil
}

type tmdbMovieResult struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

type tmdbSearchResponse struct {
	Results []tmdbMovieResult `json:"results"`
}

// searchMovie 搜索电影，取第一条结果，无结果返回 nil
func (e *TMDBEnricher) searchMovie(ctx context.Context, title string, year *int) (*tmdbMovieResult, error) {
	params := url.Values{}
	params.Set("query", title)
	if year != nil {
		params.Set("year", strconv.Itoa(*year))
	}

	var result tmdbSearchResponse
	if err := e.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}

	if len(result.Results) == 0 {
		return nil, nil
	}
	return &result.Results[0], nil
}

type tmdbCreditsResponse struct {
	Cast []struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
	Crew []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

// fetchCredits 获取电影的演职员表
func (e *TMDBEnricher) fetchCredits(ctx context.Context, tmdbID int) (*tmdbCreditsResponse, error) {
	var result tmdbCreditsResponse
	if err := e.get(ctx, fmt.Sprintf("/movie/%d/credits", tmdbID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// get 限流后的 GET 请求，自动附加 api_key
func (e *TMDBEnricher) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", e.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("请求返回状态码: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}

	return nil
}
