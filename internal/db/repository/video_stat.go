package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
)

// VideoStatRepository defines operations for per-video counter history.
type VideoStatRepository interface {
	// InsertBatch appends one reading per video in a single round trip.
	InsertBatch(ctx context.Context, stats []*models.VideoStatHistory) error

	// ListByVideo retrieves readings for a video since the given time,
	// ordered by snapshot time ascending.
	ListByVideo(ctx context.Context, videoID int64, since time.Time) ([]*models.VideoStatHistory, error)

	// DeleteOlderThan prunes readings older than the cutoff and returns
	// how many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type videoStatRepository struct {
	pool *pgxpool.Pool
}

// NewVideoStatRepository creates a new VideoStatRepository.
func NewVideoStatRepository(pool *pgxpool.Pool) VideoStatRepository {
	return &videoStatRepository{pool: pool}
}

func (r *videoStatRepository) InsertBatch(ctx context.Context, stats []*models.VideoStatHistory) error {
	if len(stats) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO video_stat_history (video_id, snapshot_time, view_count, like_count, comment_count)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, stat := range stats {
		batch.Queue(query, stat.VideoID, stat.SnapshotTime, stat.ViewCount, stat.LikeCount, stat.CommentCount)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range stats {
		if _, err := results.Exec(); err != nil {
			return db.WrapError(err, "insert video stat batch")
		}
	}

	return nil
}

func (r *videoStatRepository) ListByVideo(ctx context.Context, videoID int64, since time.Time) ([]*models.VideoStatHistory, error) {
	query := `
		SELECT id, video_id, snapshot_time, view_count, like_count, comment_count
		FROM video_stat_history
		WHERE video_id = $1 AND snapshot_time >= $2
		ORDER BY snapshot_time
	`

	rows, err := r.pool.Query(ctx, query, videoID, since)
	if err != nil {
		return nil, db.WrapError(err, "list video stats")
	}
	defer rows.Close()

	var stats []*models.VideoStatHistory
	for rows.Next() {
		stat := &models.VideoStatHistory{}
		err := rows.Scan(&stat.ID, &stat.VideoID, &stat.SnapshotTime,
			&stat.ViewCount, &stat.LikeCount, &stat.CommentCount)
		if err != nil {
			return nil, db.WrapError(err, "scan video stat")
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate video stats")
	}

	return stats, nil
}

func (r *videoStatRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM video_stat_history WHERE snapshot_time < $1`, cutoff)
	if err != nil {
		return 0, db.WrapError(err, "prune video stats")
	}

	return result.RowsAffected(), nil
}
