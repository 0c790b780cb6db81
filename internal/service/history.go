package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

// HistoryService records per-video counter readings after each sync and
// prunes readings past the retention window.
type HistoryService struct {
	statRepo      repository.VideoStatRepository
	retentionDays int
}

// NewHistoryService creates a HistoryService. A retentionDays of zero or
// less falls back to 60 days.
func NewHistoryService(statRepo repository.VideoStatRepository, retentionDays int) *HistoryService {
	if retentionDays <= 0 {
		retentionDays = 60
	}
	return &HistoryService{statRepo: statRepo, retentionDays: retentionDays}
}

// RecordSnapshots appends one reading per persisted video, all stamped with
// the same snapshot time.
func (s *HistoryService) RecordSnapshots(ctx context.Context, videos []*models.Video) error {
	if len(videos) == 0 {
		return nil
	}

	snapshotTime := time.Now()
	stats := make([]*models.VideoStatHistory, 0, len(videos))
	for _, video := range videos {
		if video.ID == 0 {
			continue
		}
		stats = append(stats, &models.VideoStatHistory{
			VideoID:      video.ID,
			SnapshotTime: snapshotTime,
			ViewCount:    video.ViewCount,
			LikeCount:    video.LikeCount,
			CommentCount: video.CommentCount,
		})
	}

	return s.statRepo.InsertBatch(ctx, stats)
}

// Prune deletes readings older than the retention window.
func (s *HistoryService) Prune(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.statRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		logger.Log.Info("Pruned video stat history",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return nil
}
