package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/config"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/service/sentiment"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	commentRepo := repository.NewCommentRepository(pool)
	client := sentiment.NewClient(sentiment.ClientConfig{
		BaseURL: cfg.Sentiment.ServiceURL,
		Timeout: cfg.Sentiment.Timeout,
	})

	pipeline := sentiment.NewPipeline(commentRepo, client, cfg.Sentiment)
	pipeline.Run(ctx)

	logger.Log.Info("Analyzer stopped gracefully")
}

func poolConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	}
}
