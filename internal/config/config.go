package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env                 string
	DatabaseURL         string
	DataDir             string
	MoviesFile          string
	RatingsFile         string
	TMDBAPIKey          string
	TMDBSleep           time.Duration
	DescriptionTemplate string
	PlaceholderCastSize int
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "cinelens")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	// TMDB 请求间隔，单位秒，默认 0.25
	sleepSec, err := strconv.ParseFloat(getEnv("TMDB_SLEEP", "0.25"), 64)
	if err != nil || sleepSec < 0 {
		sleepSec = 0.25
	}

	castSize, err := strconv.Atoi(getEnv("PLACEHOLDER_CAST_SIZE", "5"))
	if err != nil || castSize <= 0 {
		castSize = 5
	}

	return &Config{
		Env:                 getEnv("APP_ENV", "development"),
		DatabaseURL:         dbURL,
		DataDir:             getEnv("ML_DATA_DIR", "data"),
		MoviesFile:          getEnv("ML_MOVIES", "movies.csv"),
		RatingsFile:         getEnv("ML_RATINGS", "ratings.csv"),
		TMDBAPIKey:          getEnv("TMDB_API_KEY", ""),
		TMDBSleep:           time.Duration(sleepSec * float64(time.Second)),
		DescriptionTemplate: getEnv("DESCRIPTION_TEMPLATE", "A %d film"),
		PlaceholderCastSize: castSize,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
