package models

import "time"

// Channel represents a YouTube channel tracked for a user. There is at most
// one row per external channel id regardless of how many times sync runs.
type Channel struct {
	ID                int64      `db:"id" json:"id"`
	ChannelID         string     `db:"channel_id" json:"channel_id"`
	UserID            int64      `db:"user_id" json:"user_id"`
	ChannelName       string     `db:"channel_name" json:"channel_name"`
	Description       string     `db:"description" json:"description,omitempty"`
	AvatarURL         string     `db:"avatar_url" json:"avatar_url,omitempty"`
	SubscriberCount   int64      `db:"subscriber_count" json:"subscriber_count"`
	ViewCount         int64      `db:"view_count" json:"view_count"`
	VideoCount        int64      `db:"video_count" json:"video_count"`
	UploadsPlaylistID string     `db:"uploads_playlist_id" json:"uploads_playlist_id,omitempty"`
	LastSyncedAt      *time.Time `db:"last_synced_at" json:"last_synced_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// NewChannel creates a new Channel owned by the given user.
func NewChannel(channelID string, userID int64, name string) *Channel {
	now := time.Now()
	return &Channel{
		ChannelID:   channelID,
		UserID:      userID,
		ChannelName: name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
