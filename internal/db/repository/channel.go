package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
)

// ChannelRepository defines operations for managing channels.
type ChannelRepository interface {
	// UpsertChannel creates a new channel or refreshes an existing one,
	// keyed on the external channel id.
	UpsertChannel(ctx context.Context, channel *models.Channel) error

	// GetByChannelID retrieves a channel by its external YouTube channel id.
	GetByChannelID(ctx context.Context, channelID string) (*models.Channel, error)

	// GetByID retrieves a channel by its internal id.
	GetByID(ctx context.Context, id int64) (*models.Channel, error)

	// GetLatestForUser retrieves the user's most recently updated channel.
	GetLatestForUser(ctx context.Context, userID int64) (*models.Channel, error)

	// ListAll retrieves every tracked channel. Used by the nightly resync sweep.
	ListAll(ctx context.Context) ([]*models.Channel, error)

	// UpdateAggregates refreshes the channel's cached counter columns and
	// stamps last_synced_at.
	UpdateAggregates(ctx context.Context, id int64, viewCount, subscriberCount, videoCount int64) error
}

const channelColumns = `id, channel_id, user_id, channel_name, description, avatar_url,
	       subscriber_count, view_count, video_count, uploads_playlist_id,
	       last_synced_at, created_at, updated_at`

type channelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &channelRepository{pool: pool}
}

func (r *channelRepository) UpsertChannel(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (channel_id, user_id, channel_name, description, avatar_url,
		                      subscriber_count, view_count, video_count, uploads_playlist_id,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (channel_id) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    channel_name = EXCLUDED.channel_name,
		    description = EXCLUDED.description,
		    avatar_url = EXCLUDED.avatar_url,
		    subscriber_count = EXCLUDED.subscriber_count,
		    view_count = EXCLUDED.view_count,
		    video_count = EXCLUDED.video_count,
		    uploads_playlist_id = EXCLUDED.uploads_playlist_id,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		channel.ChannelID,
		channel.UserID,
		channel.ChannelName,
		channel.Description,
		channel.AvatarURL,
		channel.SubscriberCount,
		channel.ViewCount,
		channel.VideoCount,
		channel.UploadsPlaylistID,
	).Scan(
		&channel.ID,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "upsert channel")
	}

	return nil
}

func (r *channelRepository) GetByChannelID(ctx context.Context, channelID string) (*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE channel_id = $1`

	channel := &models.Channel{}
	if err := scanChannel(r.pool.QueryRow(ctx, query, channelID), channel); err != nil {
		return nil, db.WrapError(err, "get channel by channel id")
	}

	return channel, nil
}

func (r *channelRepository) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`

	channel := &models.Channel{}
	if err := scanChannel(r.pool.QueryRow(ctx, query, id), channel); err != nil {
		return nil, db.WrapError(err, "get channel by id")
	}

	return channel, nil
}

func (r *channelRepository) GetLatestForUser(ctx context.Context, userID int64) (*models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	channel := &models.Channel{}
	if err := scanChannel(r.pool.QueryRow(ctx, query, userID), channel); err != nil {
		return nil, db.WrapError(err, "get latest channel for user")
	}

	return channel, nil
}

func (r *channelRepository) ListAll(ctx context.Context) ([]*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list channels")
	}
	defer rows.Close()

	var channels []*models.Channel
	for rows.Next() {
		channel := &models.Channel{}
		if err := scanChannel(rows, channel); err != nil {
			return nil, db.WrapError(err, "scan channel")
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate channels")
	}

	return channels, nil
}

func (r *channelRepository) UpdateAggregates(ctx context.Context, id int64, viewCount, subscriberCount, videoCount int64) error {
	query := `
		UPDATE channels
		SET view_count = $2,
		    subscriber_count = $3,
		    video_count = $4,
		    last_synced_at = $5,
		    updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, viewCount, subscriberCount, videoCount, time.Now())
	if err != nil {
		return db.WrapError(err, "update channel aggregates")
	}

	if result.RowsAffected() == 0 {
		return db.WrapError(db.ErrNotFound, "update channel aggregates")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannel(row rowScanner, channel *models.Channel) error {
	return row.Scan(
		&channel.ID,
		&channel.ChannelID,
		&channel.UserID,
		&channel.ChannelName,
		&channel.Description,
		&channel.AvatarURL,
		&channel.SubscriberCount,
		&channel.ViewCount,
		&channel.VideoCount,
		&channel.UploadsPlaylistID,
		&channel.LastSyncedAt,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)
}
