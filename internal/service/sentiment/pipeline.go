package sentiment

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/config"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/metrics"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

// Analyzer is the slice of the sentiment client the pipeline depends on.
type Analyzer interface {
	AnalyzeBatch(ctx context.Context, texts []string) (map[string]Result, error)
}

// Pipeline periodically selects unanalyzed comments and dispatches them in
// batches to a bounded worker pool. Comments left unmatched by a batch stay
// unanalyzed and are retried on a later tick. Delivery to the AI service is
// at-least-once: a slow batch may still be in flight when the next tick
// selects the same comments.
type Pipeline struct {
	commentRepo repository.CommentRepository
	analyzer    Analyzer
	cfg         config.SentimentConfig
	jobs        chan []*models.Comment
	wg          sync.WaitGroup
}

// NewPipeline creates a Pipeline with the configured pool bounds.
func NewPipeline(commentRepo repository.CommentRepository, analyzer Analyzer, cfg config.SentimentConfig) *Pipeline {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 60 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 10
	}

	return &Pipeline{
		commentRepo: commentRepo,
		analyzer:    analyzer,
		cfg:         cfg,
		jobs:        make(chan []*models.Comment, cfg.QueueDepth),
	}
}

// Run starts the worker pool and the scheduler loop, returning when the
// context is cancelled and all in-flight batches have drained.
func (p *Pipeline) Run(ctx context.Context) {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	logger.Log.Info("Sentiment pipeline started",
		zap.Duration("poll_interval", p.cfg.PollInterval),
		zap.Int("batch_size", p.cfg.BatchSize),
		zap.Int("workers", p.cfg.Workers))

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(p.jobs)
			p.wg.Wait()
			logger.Log.Info("Sentiment pipeline stopped")
			return
		case <-ticker.C:
			p.dispatch(ctx)
		}
	}
}

// dispatch selects one batch of unanalyzed comments and hands it to the
// pool. When the queue is full the batch is dropped; the comments are still
// unanalyzed and the next tick picks them up again.
func (p *Pipeline) dispatch(ctx context.Context) {
	comments, err := p.commentRepo.ListUnanalyzed(ctx, p.cfg.BatchSize)
	if err != nil {
		logger.Log.Error("Failed to list unanalyzed comments", zap.Error(err))
		return
	}
	if len(comments) == 0 {
		return
	}

	select {
	case p.jobs <- comments:
		logger.Log.Info("Dispatched comment batch for analysis",
			zap.Int("comments", len(comments)))
	default:
		logger.Log.Warn("Sentiment queue full, deferring batch",
			zap.Int("comments", len(comments)))
	}
}

func (p *Pipeline) worker(ctx context.Context) {
	defer p.wg.Done()
	for comments := range p.jobs {
		p.ProcessBatch(ctx, comments)
	}
}

// ProcessBatch classifies one batch of comments. Empty texts are skipped;
// a batch with no usable text is a no-op. Results come back keyed by text,
// so two comments with identical text receive the same classification.
func (p *Pipeline) ProcessBatch(ctx context.Context, comments []*models.Comment) {
	texts := make([]string, 0, len(comments))
	for _, comment := range comments {
		if strings.TrimSpace(comment.Content) == "" {
			continue
		}
		texts = append(texts, comment.Content)
	}
	if len(texts) == 0 {
		logger.Log.Warn("No usable comment texts in batch")
		return
	}

	results, err := p.analyzer.AnalyzeBatch(ctx, texts)
	if err != nil {
		logger.Log.Error("Sentiment batch failed", zap.Error(err))
		metrics.SentimentBatches.WithLabelValues("error").Inc()
		return
	}

	updated := 0
	for _, comment := range comments {
		if strings.TrimSpace(comment.Content) == "" {
			continue
		}

		result, ok := results[comment.Content]
		if !ok {
			logger.Log.Warn("No sentiment result for comment",
				zap.Int64("comment_id", comment.ID))
			continue
		}

		comment.ApplyAnalysis(result.Sentiment, result.Emotion, result.Confidence)
		if err := p.commentRepo.UpdateAnalysis(ctx, comment); err != nil {
			logger.Log.Error("Failed to persist sentiment result",
				zap.Int64("comment_id", comment.ID),
				zap.Error(err))
			continue
		}
		updated++
		metrics.CommentsAnalyzed.Inc()
	}

	metrics.SentimentBatches.WithLabelValues("ok").Inc()
	logger.Log.Info("Analyzed comment batch",
		zap.Int("batch", len(comments)),
		zap.Int("updated", updated))
}
