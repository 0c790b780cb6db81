package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
)

// CommentRepository defines operations for managing comments.
//
// Comments are insert-once records: sync skips any external comment id that
// already exists, and only the sentiment pipeline writes to a row afterwards.
type CommentRepository interface {
	// Create inserts a new comment.
	Create(ctx context.Context, comment *models.Comment) error

	// ExistsByCommentID reports whether a comment with the external id exists.
	ExistsByCommentID(ctx context.Context, commentID string) (bool, error)

	// ListUnanalyzed retrieves up to limit comments not yet classified,
	// oldest first.
	ListUnanalyzed(ctx context.Context, limit int) ([]*models.Comment, error)

	// UpdateAnalysis persists the sentiment fields of a classified comment.
	UpdateAnalysis(ctx context.Context, comment *models.Comment) error

	// CountByChannel returns how many comments are stored for a channel.
	CountByChannel(ctx context.Context, channelID int64) (int64, error)

	// SentimentCountsByChannel returns analyzed-comment counts grouped by
	// sentiment label for a channel.
	SentimentCountsByChannel(ctx context.Context, channelID int64) (map[string]int64, error)

	// EmotionCountsByChannel returns analyzed-comment counts grouped by
	// emotion label for a channel.
	EmotionCountsByChannel(ctx context.Context, channelID int64) (map[string]int64, error)

	// ListBySentiment pages a channel's comments matching a sentiment label,
	// newest first, joined with display fields of their video. The label
	// match is case-insensitive. Also returns the total match count.
	ListBySentiment(ctx context.Context, channelID int64, sentiment string, limit, offset int) ([]*CommentWithVideo, int64, error)

	// ListByEmotion pages a channel's comments matching an emotion label,
	// newest first. Same shape as ListBySentiment.
	ListByEmotion(ctx context.Context, channelID int64, emotion string, limit, offset int) ([]*CommentWithVideo, int64, error)
}

// CommentWithVideo pairs a comment with display fields of its video for
// browsing endpoints.
type CommentWithVideo struct {
	Comment           models.Comment
	VideoTitle        string
	VideoThumbnailURL string
}

const commentColumns = `id, comment_id, video_id, parent_comment_id, author_name, author_avatar,
	       content, like_count, sentiment, emotion, sentiment_score,
	       is_analyzed, analyzed_at, published_at, created_at`

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (comment_id, video_id, parent_comment_id, author_name, author_avatar,
		                      content, like_count, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		comment.CommentID,
		comment.VideoID,
		comment.ParentCommentID,
		comment.AuthorName,
		comment.AuthorAvatar,
		comment.Content,
		comment.LikeCount,
		comment.PublishedAt,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		return db.WrapError(err, "create comment")
	}

	return nil
}

func (r *commentRepository) ExistsByCommentID(ctx context.Context, commentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM comments WHERE comment_id = $1)`, commentID,
	).Scan(&exists)
	if err != nil {
		return false, db.WrapError(err, "comment exists by comment id")
	}

	return exists, nil
}

func (r *commentRepository) ListUnanalyzed(ctx context.Context, limit int) ([]*models.Comment, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE NOT is_analyzed
		ORDER BY created_at
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, db.WrapError(err, "list unanalyzed comments")
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := scanComment(rows, comment); err != nil {
			return nil, db.WrapError(err, "scan comment")
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate comments")
	}

	return comments, nil
}

func (r *commentRepository) UpdateAnalysis(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET sentiment = $2,
		    emotion = $3,
		    sentiment_score = $4,
		    is_analyzed = $5,
		    analyzed_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.Sentiment,
		comment.Emotion,
		comment.SentimentScore,
		comment.IsAnalyzed,
		comment.AnalyzedAt,
	)
	if err != nil {
		return db.WrapError(err, "update comment analysis")
	}

	if result.RowsAffected() == 0 {
		return db.WrapError(db.ErrNotFound, "update comment analysis")
	}

	return nil
}

func (r *commentRepository) CountByChannel(ctx context.Context, channelID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM comments c
		JOIN videos v ON v.id = c.video_id
		WHERE v.channel_id = $1
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, channelID).Scan(&count); err != nil {
		return 0, db.WrapError(err, "count comments by channel")
	}

	return count, nil
}

func (r *commentRepository) SentimentCountsByChannel(ctx context.Context, channelID int64) (map[string]int64, error) {
	query := `
		SELECT c.sentiment, COUNT(*)
		FROM comments c
		JOIN videos v ON v.id = c.video_id
		WHERE v.channel_id = $1 AND c.sentiment IS NOT NULL
		GROUP BY c.sentiment
	`

	rows, err := r.pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, db.WrapError(err, "count sentiment by channel")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var sentiment string
		var count int64
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, db.WrapError(err, "scan sentiment count")
		}
		counts[sentiment] = count
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate sentiment counts")
	}

	return counts, nil
}

func (r *commentRepository) EmotionCountsByChannel(ctx context.Context, channelID int64) (map[string]int64, error) {
	query := `
		SELECT c.emotion, COUNT(*)
		FROM comments c
		JOIN videos v ON v.id = c.video_id
		WHERE v.channel_id = $1 AND c.emotion IS NOT NULL
		GROUP BY c.emotion
	`

	rows, err := r.pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, db.WrapError(err, "count emotion by channel")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var emotion string
		var count int64
		if err := rows.Scan(&emotion, &count); err != nil {
			return nil, db.WrapError(err, "scan emotion count")
		}
		counts[emotion] = count
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate emotion counts")
	}

	return counts, nil
}

func (r *commentRepository) ListBySentiment(ctx context.Context, channelID int64, sentiment string, limit, offset int) ([]*CommentWithVideo, int64, error) {
	return r.listByLabel(ctx, channelID, "sentiment", sentiment, limit, offset)
}

func (r *commentRepository) ListByEmotion(ctx context.Context, channelID int64, emotion string, limit, offset int) ([]*CommentWithVideo, int64, error) {
	return r.listByLabel(ctx, channelID, "emotion", emotion, limit, offset)
}

// listByLabel pages comments filtered on one of the two classification
// columns. column is one of the fixed identifiers "sentiment" or "emotion",
// never caller input.
func (r *commentRepository) listByLabel(ctx context.Context, channelID int64, column, label string, limit, offset int) ([]*CommentWithVideo, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM comments c
		JOIN videos v ON v.id = c.video_id
		WHERE v.channel_id = $1 AND LOWER(c.` + column + `) = LOWER($2)
	`
	if err := r.pool.QueryRow(ctx, countQuery, channelID, label).Scan(&total); err != nil {
		return nil, 0, db.WrapError(err, "count comments by "+column)
	}

	query := `
		SELECT c.id, c.comment_id, c.video_id, c.parent_comment_id, c.author_name, c.author_avatar,
		       c.content, c.like_count, c.sentiment, c.emotion, c.sentiment_score,
		       c.is_analyzed, c.analyzed_at, c.published_at, c.created_at,
		       v.title, v.thumbnail_url
		FROM comments c
		JOIN videos v ON v.id = c.video_id
		WHERE v.channel_id = $1 AND LOWER(c.` + column + `) = LOWER($2)
		ORDER BY c.published_at DESC NULLS LAST, c.id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, channelID, label, limit, offset)
	if err != nil {
		return nil, 0, db.WrapError(err, "list comments by "+column)
	}
	defer rows.Close()

	var out []*CommentWithVideo
	for rows.Next() {
		row := &CommentWithVideo{}
		err := rows.Scan(
			&row.Comment.ID,
			&row.Comment.CommentID,
			&row.Comment.VideoID,
			&row.Comment.ParentCommentID,
			&row.Comment.AuthorName,
			&row.Comment.AuthorAvatar,
			&row.Comment.Content,
			&row.Comment.LikeCount,
			&row.Comment.Sentiment,
			&row.Comment.Emotion,
			&row.Comment.SentimentScore,
			&row.Comment.IsAnalyzed,
			&row.Comment.AnalyzedAt,
			&row.Comment.PublishedAt,
			&row.Comment.CreatedAt,
			&row.VideoTitle,
			&row.VideoThumbnailURL,
		)
		if err != nil {
			return nil, 0, db.WrapError(err, "scan comment with video")
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, db.WrapError(err, "iterate comments by "+column)
	}

	return out, total, nil
}

func scanComment(row rowScanner, comment *models.Comment) error {
	return row.Scan(
		&comment.ID,
		&comment.CommentID,
		&comment.VideoID,
		&comment.ParentCommentID,
		&comment.AuthorName,
		&comment.AuthorAvatar,
		&comment.Content,
		&comment.LikeCount,
		&comment.Sentiment,
		&comment.Emotion,
		&comment.SentimentScore,
		&comment.IsAnalyzed,
		&comment.AnalyzedAt,
		&comment.PublishedAt,
		&comment.CreatedAt,
	)
}
