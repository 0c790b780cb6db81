package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

// Sweeper runs the nightly maintenance pass: every tracked channel is
// re-synced and old video stat history is pruned.
type Sweeper struct {
	channelRepo     repository.ChannelRepository
	sync            *SyncService
	history         *HistoryService
	includeComments bool
	interval        time.Duration
}

// NewSweeper creates a Sweeper. An interval of zero or less falls back to
// 24 hours.
func NewSweeper(
	channelRepo repository.ChannelRepository,
	sync *SyncService,
	history *HistoryService,
	includeComments bool,
	interval time.Duration,
) *Sweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Sweeper{
		channelRepo:     channelRepo,
		sync:            sync,
		history:         history,
		includeComments: includeComments,
		interval:        interval,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Log.Info("Nightly sweeper started",
		zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Nightly sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep refreshes every tracked channel and prunes stat history. Failures
// on one channel do not stop the sweep.
func (s *Sweeper) Sweep(ctx context.Context) {
	channels, err := s.channelRepo.ListAll(ctx)
	if err != nil {
		logger.Log.Error("Failed to list channels for sweep", zap.Error(err))
		return
	}

	for _, channel := range channels {
		if ctx.Err() != nil {
			return
		}
		if err := s.sync.RefreshChannel(ctx, channel, s.includeComments); err != nil {
			logger.Log.Error("Failed to refresh channel",
				zap.String("channel_id", channel.ChannelID),
				zap.Error(err))
			continue
		}
		logger.Log.Info("Refreshed channel", zap.String("channel_id", channel.ChannelID))
	}

	if err := s.history.Prune(ctx); err != nil {
		logger.Log.Error("Failed to prune video stat history", zap.Error(err))
	}
}
