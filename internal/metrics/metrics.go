// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsProcessed counts analyze jobs by terminal status.
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyze_jobs_processed_total",
		Help: "Analyze jobs processed, labeled by terminal status.",
	}, []string{"status"})

	// SyncDuration tracks how long a full channel sync takes.
	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "channel_sync_duration_seconds",
		Help:    "Duration of a full channel sync.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// VideosUpserted counts videos written during sync.
	VideosUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videos_upserted_total",
		Help: "Videos created or refreshed during channel sync.",
	})

	// CommentsIngested counts new comments stored during sync.
	CommentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comments_ingested_total",
		Help: "New comments stored during channel sync.",
	})

	// SentimentBatches counts sentiment batches by outcome.
	SentimentBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_batches_total",
		Help: "Sentiment analysis batches, labeled by outcome.",
	}, []string{"outcome"})

	// CommentsAnalyzed counts comments that received a classification.
	CommentsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comments_analyzed_total",
		Help: "Comments updated with a sentiment classification.",
	})
)
