package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestEnricher 指向本地 httptest 服务的客户端，不限流
func newTestEnricher(serverURL string) *TMDBEnricher {
	return &TMDBEnricher{
		apiKey:  "test-key",
		baseURL: serverURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestTMDBEnrichPicksFirstResultAndDirector(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Heat", r.URL.Query().Get("query"))
		assert.Equal(t, "1995", r.URL.Query().Get("year"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"results":[
			{"id":949,"title":"Heat","poster_path":"/heat.jpg"},
			{"id":666,"title":"Heat 2","poster_path":"/other.jpg"}
		]}`)
	})
	mux.HandleFunc("/movie/949/credits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"cast":[{"id":1158,"name":"Al Pacino","profile_path":"/pacino.jpg"},{"id":380,"name":"Robert De Niro","profile_path":""}],
			"crew":[{"id":1,"name":"Dante Spinotti","job":"Director of Photography"},{"id":5602,"name":"Michael Mann","job":"Director"},{"id":2,"name":"Someone Else","job":"Director"}]
		}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	year := 1995
	enrichment, err := newTestEnricher(srv.URL).Enrich(context.Background(), "Heat", &year)
	require.NoError(t, err)
	require.NotNil(t, enrichment)

	// 搜索取第一条结果
	assert.Equal(t, 949, enrichment.TMDBID)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/heat.jpg", enrichment.PosterURL)

	// 取第一位 Job 为 Director 的剧组成员
	require.NotNil(t, enrichment.Director)
	assert.Equal(t, "Michael Mann", enrichment.Director.Name)
	assert.Equal(t, 5602, enrichment.Director.TMDBPersonID)

	require.Len(t, enrichment.Cast, 2)
	assert.Equal(t, "Al Pacino", enrichment.Cast[0].Name)
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/pacino.jpg", enrichment.Cast[0].ProfileURL)
	assert.Empty(t, enrichment.Cast[1].ProfileURL)
}

func TestTMDBEnrichCapsCast(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":7,"title":"Big Cast"}]}`)
	})
	mux.HandleFunc("/movie/7/credits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cast":[
			{"id":1,"name":"A"},{"id":2,"name":"B"},{"id":3,"name":"C"},{"id":4,"name":"D"},
			{"id":5,"name":"E"},{"id":6,"name":"F"},{"id":7,"name":"G"},{"id":8,"name":"H"},
			{"id":9,"name":"I"},{"id":10,"name":"J"}
		],"crew":[]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	enrichment, err := newTestEnricher(srv.URL).Enrich(context.Background(), "Big Cast", nil)
	require.NoError(t, err)
	require.NotNil(t, enrichment)

	// 演员表截断到前 8 位，保持返回顺序
	require.Len(t, enrichment.Cast, tmdbCastLimit)
	assert.Equal(t, "A", enrichment.Cast[0].Name)
	assert.Equal(t, "H", enrichment.Cast[7].Name)
	assert.Nil(t, enrichment.Director)
}

func TestTMDBEnrichNoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	enrichment, err := newTestEnricher(srv.URL).Enrich(context.Background(), "Unknown", nil)
	require.NoError(t, err)
	assert.Nil(t, enrichment)
}

func TestTMDBEnrichSearchErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	enrichment, err := newTestEnricher(srv.URL).Enrich(context.Background(), "Heat", nil)
	assert.Error(t, err)
	assert.Nil(t, enrichment)
}

func TestTMDBEnrichCreditsFailureKeepsSearchData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":99,"title":"Heat","poster_path":"/p.jpg"}]}`)
	})
	mux.HandleFunc("/movie/99/credits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	enrichment, err := newTestEnricher(srv.URL).Enrich(context.Background(), "Heat", nil)
	require.NoError(t, err)
	require.NotNil(t, enrichment)

	// 演职员失败只损失人物信息
	assert.Equal(t, 99, enrichment.TMDBID)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", enrichment.PosterURL)
	assert.Nil(t, enrichment.Director)
	assert.Empty(t, enrichment.Cast)
}

func TestNoopEnricher(t *testing.T) {
	enrichment, err := NoopEnricher{}.Enrich(context.Background(), "Heat", nil)
	assert.NoError(t, err)
	assert.Nil(t, enrichment)
}
