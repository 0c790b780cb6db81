package models

import "time"

// Video represents a single video belonging to a tracked channel. Upserts are
// keyed on the external video id; numeric counters are refreshed in place.
type Video struct {
	ID              int64      `db:"id" json:"id"`
	VideoID         string     `db:"video_id" json:"video_id"`
	ChannelID       int64      `db:"channel_id" json:"channel_id"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description,omitempty"`
	ThumbnailURL    string     `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	DurationSeconds int64      `db:"duration_seconds" json:"duration_seconds"`
	ViewCount       int64      `db:"view_count" json:"view_count"`
	LikeCount       int64      `db:"like_count" json:"like_count"`
	CommentCount    int64      `db:"comment_count" json:"comment_count"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// EngagementScore ranks a video for "top videos" queries.
func (v *Video) EngagementScore() int64 {
	return v.LikeCount + v.CommentCount
}
