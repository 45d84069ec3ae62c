package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/cinelens/internal/config"
	"github.com/user/cinelens/internal/repository"
	"github.com/user/cinelens/internal/service"
)

var (
	flagDataDir string
	flagMovies  string
	flagRatings string
)

var rootCmd = &cobra.Command{
	Use:          "seeder",
	Short:        "导入 MovieLens 数据并构建规范化电影目录",
	Long:         "读取 MovieLens 的电影和评分文件，可选经 TMDB 补全元数据，幂等写入电影目录。",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "数据目录（覆盖 ML_DATA_DIR）")
	rootCmd.Flags().StringVar(&flagMovies, "movies", "", "电影文件名（覆盖 ML_MOVIES）")
	rootCmd.Flags().StringVar(&flagRatings, "ratings", "", "评分文件名（覆盖 ML_RATINGS）")
}

func run(cmd *cobra.Command, args []string) error {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置，命令行参数优先
	cfg := config.Load()
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagMovies != "" {
		cfg.MoviesFile = flagMovies
	}
	if flagRatings != "" {
		cfg.RatingsFile = flagRatings
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 建表
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("建表失败: %w", err)
	}

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 按配置选择补全实现：没有 API Key 则走纯占位路径
	var enricher service.Enricher
	if cfg.TMDBAPIKey != "" {
		log.Println("[Seeder] TMDB 补全已启用")
		enricher = service.NewTMDBEnricher(cfg.TMDBAPIKey, cfg.TMDBSleep)
	} else {
		log.Println("[Seeder] 未配置 TMDB_API_KEY，使用占位数据")
		enricher = service.NoopEnricher{}
	}

	// 支持 Ctrl-C 在行与行之间停止
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeder := service.NewSeeder(repository.NewCatalog(repos), enricher, cfg)
	result, err := seeder.Run(ctx)
	if err != nil {
		return fmt.Errorf("导入失败: %w", err)
	}

	log.Printf("[Seeder] 全部完成: 成功 %d 部, 跳过 %d 行", result.Processed, result.Skipped)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
