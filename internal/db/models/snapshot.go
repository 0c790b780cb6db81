package models

import "time"

// Snapshot is a cumulative daily metric reading for a channel. At most one
// row exists per (channel, date); later syncs on the same day overwrite it.
type Snapshot struct {
	ID              int64     `db:"id" json:"id"`
	ChannelID       int64     `db:"channel_id" json:"channel_id"`
	Date            time.Time `db:"date" json:"date"`
	ViewCount       int64     `db:"view_count" json:"view_count"`
	LikeCount       int64     `db:"like_count" json:"like_count"`
	CommentCount    int64     `db:"comment_count" json:"comment_count"`
	SubscriberCount int64     `db:"subscriber_count" json:"subscriber_count"`
	VideoCount      int64     `db:"video_count" json:"video_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
