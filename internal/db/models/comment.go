package models

import "time"

// Comment is a top-level comment or reply ingested from a video. Comments are
// created once per external comment id and never re-inserted on later syncs,
// so remote edits to a comment's text are not picked up.
type Comment struct {
	ID              int64      `db:"id" json:"id"`
	CommentID       string     `db:"comment_id" json:"comment_id"`
	VideoID         int64      `db:"video_id" json:"video_id"`
	ParentCommentID *string    `db:"parent_comment_id" json:"parent_comment_id,omitempty"`
	AuthorName      string     `db:"author_name" json:"author_name,omitempty"`
	AuthorAvatar    string     `db:"author_avatar" json:"author_avatar,omitempty"`
	Content         string     `db:"content" json:"content"`
	LikeCount       int64      `db:"like_count" json:"like_count"`
	Sentiment       *string    `db:"sentiment" json:"sentiment,omitempty"`
	Emotion         *string    `db:"emotion" json:"emotion,omitempty"`
	SentimentScore  *float64   `db:"sentiment_score" json:"sentiment_score,omitempty"`
	IsAnalyzed      bool       `db:"is_analyzed" json:"is_analyzed"`
	AnalyzedAt      *time.Time `db:"analyzed_at" json:"analyzed_at,omitempty"`
	PublishedAt     *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ApplyAnalysis records a classification result and marks the comment analyzed.
func (c *Comment) ApplyAnalysis(sentiment, emotion string, confidence float64) {
	now := time.Now()
	c.Sentiment = &sentiment
	c.Emotion = &emotion
	c.SentimentScore = &confidence
	c.IsAnalyzed = true
	c.AnalyzedAt = &now
}
