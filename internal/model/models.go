package model

import (
	"time"
)

// Movie 电影模型（以 MovieLens ID 为自然键）
type Movie struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	MLID        int       `json:"ml_id" gorm:"column:ml_id;uniqueIndex"`
	TMDBID      *int      `json:"tmdb_id" gorm:"column:tmdb_id"`
	Title       string    `json:"title" gorm:"index"`
	ReleaseYear *int      `json:"release_year"`
	Description string    `json:"description"`
	Rating      *float64  `json:"rating"`
	RatingCount int       `json:"rating_count" gorm:"default:0"`
	PosterURL   string    `json:"poster_url"`
	DirectorID  *int      `json:"director_id"`
	Director    *Director `json:"director,omitempty"`
	Actors      []Actor   `json:"actors" gorm:"many2many:movie_actors"`
	Genres      []Genre   `json:"genres" gorm:"many2many:movie_genres"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Director 导演（按名字精确去重）
type Director struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex"`
	Bio  string `json:"bio"`
}

// Actor 演员（按名字精确去重）
type Actor struct {
	ID              int    `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"uniqueIndex"`
	Bio             string `json:"bio"`
	TMDBPersonID    *int   `json:"tmdb_person_id" gorm:"column:tmdb_person_id"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Genre 电影类型（全局唯一）
type Genre struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex"`
}

// MovieUpsert 电影写入参数
// 关系字段为 nil 表示"未提供，保留现有关联"；空切片表示"清空关联"
type MovieUpsert struct {
	MLID        int
	Title       string
	ReleaseYear *int
	Description string
	Rating      *float64
	RatingCount int
	PosterURL   string
	TMDBID      *int
	Director    *Director
	Actors      []Actor
	Genres      []Genre
}
