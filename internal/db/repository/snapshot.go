package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
)

// SnapshotRepository defines operations for managing daily channel snapshots.
type SnapshotRepository interface {
	// Upsert inserts a snapshot for (channel, date) or overwrites the
	// existing row's counters when one already exists for that day.
	Upsert(ctx context.Context, snapshot *models.Snapshot) error

	// GetRange retrieves snapshots for a channel with date in [from, to],
	// ordered by date ascending.
	GetRange(ctx context.Context, channelID int64, from, to time.Time) ([]*models.Snapshot, error)

	// GetFirst retrieves the earliest snapshot for a channel.
	GetFirst(ctx context.Context, channelID int64) (*models.Snapshot, error)

	// GetLatestBefore retrieves the most recent snapshot strictly before
	// the given date.
	GetLatestBefore(ctx context.Context, channelID int64, date time.Time) (*models.Snapshot, error)
}

const snapshotColumns = `id, channel_id, date, view_count, like_count, comment_count,
	       subscriber_count, video_count, created_at, updated_at`

type snapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{pool: pool}
}

func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (channel_id, date, view_count, like_count, comment_count,
		                       subscriber_count, video_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (channel_id, date) DO UPDATE SET
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			subscriber_count = EXCLUDED.subscriber_count,
			video_count = EXCLUDED.video_count,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		snapshot.ChannelID,
		snapshot.Date,
		snapshot.ViewCount,
		snapshot.LikeCount,
		snapshot.CommentCount,
		snapshot.SubscriberCount,
		snapshot.VideoCount,
	).Scan(&snapshot.ID, &snapshot.CreatedAt, &snapshot.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "upsert snapshot")
	}

	return nil
}

func (r *snapshotRepository) GetRange(ctx context.Context, channelID int64, from, to time.Time) ([]*models.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE channel_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.pool.Query(ctx, query, channelID, from, to)
	if err != nil {
		return nil, db.WrapError(err, "get snapshot range")
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		snapshot := &models.Snapshot{}
		if err := scanSnapshot(rows, snapshot); err != nil {
			return nil, db.WrapError(err, "scan snapshot")
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate snapshots")
	}

	return snapshots, nil
}

func (r *snapshotRepository) GetFirst(ctx context.Context, channelID int64) (*models.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE channel_id = $1
		ORDER BY date
		LIMIT 1
	`

	snapshot := &models.Snapshot{}
	if err := scanSnapshot(r.pool.QueryRow(ctx, query, channelID), snapshot); err != nil {
		return nil, db.WrapError(err, "get first snapshot")
	}

	return snapshot, nil
}

func (r *snapshotRepository) GetLatestBefore(ctx context.Context, channelID int64, date time.Time) (*models.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE channel_id = $1 AND date < $2
		ORDER BY date DESC
		LIMIT 1
	`

	snapshot := &models.Snapshot{}
	if err := scanSnapshot(r.pool.QueryRow(ctx, query, channelID, date), snapshot); err != nil {
		return nil, db.WrapError(err, "get latest snapshot before date")
	}

	return snapshot, nil
}

func scanSnapshot(row rowScanner, snapshot *models.Snapshot) error {
	return row.Scan(
		&snapshot.ID,
		&snapshot.ChannelID,
		&snapshot.Date,
		&snapshot.ViewCount,
		&snapshot.LikeCount,
		&snapshot.CommentCount,
		&snapshot.SubscriberCount,
		&snapshot.VideoCount,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
}
