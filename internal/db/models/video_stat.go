package models

import "time"

// VideoStatHistory is an append-only per-video counter reading used for
// short-term growth curves. Rows are pruned past a retention window.
type VideoStatHistory struct {
	ID           int64     `db:"id" json:"id"`
	VideoID      int64     `db:"video_id" json:"video_id"`
	SnapshotTime time.Time `db:"snapshot_time" json:"snapshot_time"`
	ViewCount    int64     `db:"view_count" json:"view_count"`
	LikeCount    int64     `db:"like_count" json:"like_count"`
	CommentCount int64     `db:"comment_count" json:"comment_count"`
}
