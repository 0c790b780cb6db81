package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/metrics"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

// JobWorker polls the analyze job queue and executes one job per tick.
type JobWorker struct {
	jobRepo      repository.JobRepository
	sync         *SyncService
	pollInterval time.Duration
}

// NewJobWorker creates a JobWorker. A pollInterval of zero or less falls
// back to 3 seconds.
func NewJobWorker(jobRepo repository.JobRepository, sync *SyncService, pollInterval time.Duration) *JobWorker {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &JobWorker{
		jobRepo:      jobRepo,
		sync:         sync,
		pollInterval: pollInterval,
	}
}

// Run polls until the context is cancelled.
func (w *JobWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Log.Info("Job worker started",
		zap.Duration("poll_interval", w.pollInterval))

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Job worker stopped")
			return
		case <-ticker.C:
			w.ProcessNext(ctx)
		}
	}
}

// ProcessNext claims and executes the oldest pending job, if any. The claim
// itself transitions the job to RUNNING; whatever the sync returns decides
// the terminal state.
func (w *JobWorker) ProcessNext(ctx context.Context) {
	job, err := w.jobRepo.ClaimNextPending(ctx)
	if err != nil {
		if !db.IsNotFound(err) {
			logger.Log.Error("Failed to claim job", zap.Error(err))
		}
		return
	}

	logger.Log.Info("Processing analyze job",
		zap.String("job_id", job.ID.String()),
		zap.Int64("user_id", job.UserID),
		zap.String("url", job.URL))

	result, err := w.sync.AnalyzeURL(ctx, job.UserID, job.URL)
	if err != nil {
		logger.Log.Error("Analyze job failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
		job.MarkFailed(err.Error())
		metrics.JobsProcessed.WithLabelValues("failed").Inc()
	} else {
		job.MarkSuccess(result.ChannelID, result.Message)
		metrics.JobsProcessed.WithLabelValues("success").Inc()
	}

	if err := w.jobRepo.Update(ctx, job); err != nil {
		logger.Log.Error("Failed to persist job result",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
}
