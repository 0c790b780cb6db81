package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/config"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/service"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/youtube"
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

	if cfg.YouTube.APIKey == "" {
		logger.Log.Fatal("YouTube API key is required (APP_YOUTUBE_APIKEY)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	apiClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey,
		youtube.WithQuotaBuffer(int64(cfg.YouTube.QuotaBuffer)))
	if err != nil {
		logger.Log.Fatal("Failed to initialize YouTube client", zap.Error(err))
	}

	channelRepo := repository.NewChannelRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	statRepo := repository.NewVideoStatRepository(pool)

	history := service.NewHistoryService(statRepo, cfg.Sync.HistoryRetentionDays)

	var publisher service.EventPublisher
	if cfg.RabbitMQ.Host != "" {
		mp, err := service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, sync events disabled", zap.Error(err))
		} else {
			defer mp.Close()
			publisher = mp
		}
	}

	syncService := service.NewSyncService(
		apiClient,
		channelRepo,
		videoRepo,
		commentRepo,
		snapshotRepo,
		history,
		publisher,
		cfg.Sync,
	)

	worker := service.NewJobWorker(jobRepo, syncService, cfg.Sync.JobPollInterval)
	sweeper := service.NewSweeper(channelRepo, syncService, history,
		cfg.Sync.FetchCommentsOnSync, cfg.Sync.NightlySweepInterval)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	<-ctx.Done()
	logger.Log.Info("Shutdown signal received")
	wg.Wait()
	logger.Log.Info("Worker stopped gracefully")
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
