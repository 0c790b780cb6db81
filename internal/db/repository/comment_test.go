package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestComment(t *testing.T, td *testutil.TestDatabase, videoID int64, commentID, content string) *models.Comment {
	t.Helper()

	repo := NewCommentRepository(td.Pool)
	publishedAt := time.Now().Add(-time.Hour)
	comment := &models.Comment{
		CommentID:   commentID,
		VideoID:     videoID,
		AuthorName:  "someone",
		Content:     content,
		PublishedAt: &publishedAt,
	}
	require.NoError(t, repo.Create(context.Background(), comment))
	return comment
}

func TestCommentRepository_ExistsByCommentID(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	t.Run("reports existing and missing comments", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)
		createTestComment(t, td, video.ID, "cmt1", "great video")

		exists, err := repo.ExistsByCommentID(ctx, "cmt1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCommentID(ctx, "cmt2")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCommentRepository_ListUnanalyzed(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	t.Run("returns only unanalyzed comments up to limit", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		for i := 0; i < 5; i++ {
			createTestComment(t, td, video.ID, fmt.Sprintf("cmt%d", i), fmt.Sprintf("text %d", i))
		}

		analyzed := createTestComment(t, td, video.ID, "cmt-done", "already classified")
		analyzed.ApplyAnalysis("POSITIVE", "joy", 0.91)
		require.NoError(t, repo.UpdateAnalysis(ctx, analyzed))

		comments, err := repo.ListUnanalyzed(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, comments, 3)
		for _, c := range comments {
			assert.False(t, c.IsAnalyzed)
		}

		comments, err = repo.ListUnanalyzed(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, comments, 5)
	})
}

func TestCommentRepository_UpdateAnalysis(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	t.Run("persists sentiment fields", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)
		comment := createTestComment(t, td, video.ID, "cmt1", "love it")

		comment.ApplyAnalysis("POSITIVE", "joy", 0.87)
		require.NoError(t, repo.UpdateAnalysis(ctx, comment))

		remaining, err := repo.ListUnanalyzed(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		counts, err := repo.SentimentCountsByChannel(ctx, channel.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts["POSITIVE"])
	})
}

func TestCommentRepository_SentimentCountsByChannel(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	t.Run("groups analyzed comments by label", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		labels := []string{"POSITIVE", "POSITIVE", "NEGATIVE", "NEUTRAL"}
		for i, label := range labels {
			comment := createTestComment(t, td, video.ID, fmt.Sprintf("cmt%d", i), fmt.Sprintf("text %d", i))
			comment.ApplyAnalysis(label, "neutral", 0.5)
			require.NoError(t, repo.UpdateAnalysis(ctx, comment))
		}
		// Unanalyzed comments stay out of the counts
		createTestComment(t, td, video.ID, "cmt-pending", "pending")

		counts, err := repo.SentimentCountsByChannel(ctx, channel.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts["POSITIVE"])
		assert.Equal(t, int64(1), counts["NEGATIVE"])
		assert.Equal(t, int64(1), counts["NEUTRAL"])

		total, err := repo.CountByChannel(ctx, channel.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})
}

func TestCommentRepository_EmotionCountsByChannel(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	t.Run("groups analyzed comments by emotion", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		emotions := []string{"JOY", "JOY", "ANGER"}
		for i, emotion := range emotions {
			comment := createTestComment(t, td, video.ID, fmt.Sprintf("cmt%d", i), fmt.Sprintf("text %d", i))
			comment.ApplyAnalysis("POSITIVE", emotion, 0.8)
			require.NoError(t, repo.UpdateAnalysis(ctx, comment))
		}
		createTestComment(t, td, video.ID, "cmt-pending", "pending")

		counts, err := repo.EmotionCountsByChannel(ctx, channel.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts["JOY"])
		assert.Equal(t, int64(1), counts["ANGER"])
		assert.Len(t, counts, 2)
	})
}

func TestCommentRepository_ListBySentiment(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	t.Run("pages matches case-insensitively with video context", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		for i := 0; i < 3; i++ {
			comment := createTestComment(t, td, video.ID, fmt.Sprintf("pos%d", i), fmt.Sprintf("nice %d", i))
			comment.ApplyAnalysis("POSITIVE", "joy", 0.9)
			require.NoError(t, repo.UpdateAnalysis(ctx, comment))
		}
		negative := createTestComment(t, td, video.ID, "neg0", "bad")
		negative.ApplyAnalysis("NEGATIVE", "anger", 0.7)
		require.NoError(t, repo.UpdateAnalysis(ctx, negative))

		rows, total, err := repo.ListBySentiment(ctx, channel.ID, "positive", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rows, 2)
		for _, row := range rows {
			require.NotNil(t, row.Comment.Sentiment)
			assert.Equal(t, "POSITIVE", *row.Comment.Sentiment)
			assert.Equal(t, video.Title, row.VideoTitle)
		}

		rows, total, err = repo.ListBySentiment(ctx, channel.ID, "POSITIVE", 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, rows, 1)
	})

	t.Run("scopes matches to the channel", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		other := createTestChannel(t, td, "UC2")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)
		otherVideo := createTestVideo(t, td, other.ID, "vid2", 50, 5, 1)

		mine := createTestComment(t, td, video.ID, "cmt1", "mine")
		mine.ApplyAnalysis("NEGATIVE", "anger", 0.6)
		require.NoError(t, repo.UpdateAnalysis(ctx, mine))

		theirs := createTestComment(t, td, otherVideo.ID, "cmt2", "theirs")
		theirs.ApplyAnalysis("NEGATIVE", "anger", 0.6)
		require.NoError(t, repo.UpdateAnalysis(ctx, theirs))

		rows, total, err := repo.ListBySentiment(ctx, channel.ID, "negative", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "mine", rows[0].Comment.Content)
	})
}

func TestCommentRepository_ListByEmotion(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewCommentRepository(td.Pool)
	ctx := context.Background()

	t.Run("filters on the emotion label", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		joyful := createTestComment(t, td, video.ID, "cmt1", "so happy")
		joyful.ApplyAnalysis("POSITIVE", "JOY", 0.9)
		require.NoError(t, repo.UpdateAnalysis(ctx, joyful))

		angry := createTestComment(t, td, video.ID, "cmt2", "terrible")
		angry.ApplyAnalysis("NEGATIVE", "ANGER", 0.8)
		require.NoError(t, repo.UpdateAnalysis(ctx, angry))

		rows, total, err := repo.ListByEmotion(ctx, channel.ID, "joy", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "so happy", rows[0].Comment.Content)
	})
}
