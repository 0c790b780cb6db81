package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
)

// VideoRepository defines operations for managing videos.
type VideoRepository interface {
	// UpsertVideo creates a new video or refreshes an existing one, keyed on
	// the external video id.
	UpsertVideo(ctx context.Context, video *models.Video) error

	// GetByVideoID retrieves a video by its external YouTube video id.
	GetByVideoID(ctx context.Context, videoID string) (*models.Video, error)

	// ListByChannel retrieves videos for a channel, newest first.
	ListByChannel(ctx context.Context, channelID int64, limit int) ([]*models.Video, error)

	// TopEngaging ranks videos by likes + comments descending, tie-broken
	// by raw view count descending.
	TopEngaging(ctx context.Context, channelID int64, limit int) ([]*models.Video, error)

	// SumCounts returns the channel's total view, like and comment counters
	// summed over its stored videos.
	SumCounts(ctx context.Context, channelID int64) (views, likes, comments int64, err error)

	// CountByChannel returns the number of stored videos for a channel.
	CountByChannel(ctx context.Context, channelID int64) (int64, error)
}

const videoColumns = `id, video_id, channel_id, title, description, thumbnail_url,
	       duration_seconds, view_count, like_count, comment_count,
	       published_at, created_at, updated_at`

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

func (r *videoRepository) UpsertVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (video_id, channel_id, title, description, thumbnail_url,
		                    duration_seconds, view_count, like_count, comment_count,
		                    published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (video_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    thumbnail_url = EXCLUDED.thumbnail_url,
		    duration_seconds = EXCLUDED.duration_seconds,
		    view_count = EXCLUDED.view_count,
		    like_count = EXCLUDED.like_count,
		    comment_count = EXCLUDED.comment_count,
		    published_at = EXCLUDED.published_at,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		video.VideoID,
		video.ChannelID,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.DurationSeconds,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
		video.PublishedAt,
	).Scan(
		&video.ID,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "upsert video")
	}

	return nil
}

func (r *videoRepository) GetByVideoID(ctx context.Context, videoID string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE video_id = $1`

	video := &models.Video{}
	if err := scanVideo(r.pool.QueryRow(ctx, query, videoID), video); err != nil {
		return nil, db.WrapError(err, "get video by video id")
	}

	return video, nil
}

func (r *videoRepository) ListByChannel(ctx context.Context, channelID int64, limit int) ([]*models.Video, error) {
	if limit <= 0 {
		limit = 500
	}

	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE channel_id = $1
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list videos by channel")
	}
	defer rows.Close()

	return collectVideos(rows)
}

func (r *videoRepository) TopEngaging(ctx context.Context, channelID int64, limit int) ([]*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE channel_id = $1
		ORDER BY like_count + comment_count DESC, view_count DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, db.WrapError(err, "top engaging videos")
	}
	defer rows.Close()

	return collectVideos(rows)
}

func (r *videoRepository) SumCounts(ctx context.Context, channelID int64) (int64, int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(view_count), 0),
		       COALESCE(SUM(like_count), 0),
		       COALESCE(SUM(comment_count), 0)
		FROM videos
		WHERE channel_id = $1
	`

	var views, likes, comments int64
	err := r.pool.QueryRow(ctx, query, channelID).Scan(&views, &likes, &comments)
	if err != nil {
		return 0, 0, 0, db.WrapError(err, "sum video counts")
	}

	return views, likes, comments, nil
}

func (r *videoRepository) CountByChannel(ctx context.Context, channelID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE channel_id = $1`, channelID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count videos by channel")
	}

	return count, nil
}

func collectVideos(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.Video, error) {
	var videos []*models.Video
	for rows.Next() {
		video := &models.Video{}
		if err := scanVideo(rows, video); err != nil {
			return nil, db.WrapError(err, "scan video")
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate videos")
	}

	return videos, nil
}

func scanVideo(row rowScanner, video *models.Video) error {
	return row.Scan(
		&video.ID,
		&video.VideoID,
		&video.ChannelID,
		&video.Title,
		&video.Description,
		&video.ThumbnailURL,
		&video.DurationSeconds,
		&video.ViewCount,
		&video.LikeCount,
		&video.CommentCount,
		&video.PublishedAt,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
}
