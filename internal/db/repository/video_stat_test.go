package repository

import (
	"context"
	"testing"
	"time"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoStatRepository_InsertBatchAndList(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewVideoStatRepository(td.Pool)
	ctx := context.Background()

	t.Run("appends readings and lists them in time order", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		now := time.Now().UTC().Truncate(time.Second)
		stats := []*models.VideoStatHistory{
			{VideoID: video.ID, SnapshotTime: now.Add(-2 * time.Hour), ViewCount: 80},
			{VideoID: video.ID, SnapshotTime: now, ViewCount: 100},
			{VideoID: video.ID, SnapshotTime: now.Add(-1 * time.Hour), ViewCount: 90},
		}
		require.NoError(t, repo.InsertBatch(ctx, stats))

		listed, err := repo.ListByVideo(ctx, video.ID, now.Add(-3*time.Hour))
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, int64(80), listed[0].ViewCount)
		assert.Equal(t, int64(100), listed[2].ViewCount)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		td.TruncateTables(t)

		require.NoError(t, repo.InsertBatch(ctx, nil))
	})

	t.Run("since filter excludes older readings", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		now := time.Now().UTC()
		require.NoError(t, repo.InsertBatch(ctx, []*models.VideoStatHistory{
			{VideoID: video.ID, SnapshotTime: now.Add(-48 * time.Hour), ViewCount: 50},
			{VideoID: video.ID, SnapshotTime: now, ViewCount: 100},
		}))

		listed, err := repo.ListByVideo(ctx, video.ID, now.Add(-24*time.Hour))
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, int64(100), listed[0].ViewCount)
	})
}

func TestVideoStatRepository_DeleteOlderThan(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewVideoStatRepository(td.Pool)
	ctx := context.Background()

	t.Run("prunes readings past the cutoff", func(t *testing.T) {
		td.TruncateTables(t)
		channel := createTestChannel(t, td, "UC1")
		video := createTestVideo(t, td, channel.ID, "vid1", 100, 10, 2)

		now := time.Now().UTC()
		require.NoError(t, repo.InsertBatch(ctx, []*models.VideoStatHistory{
			{VideoID: video.ID, SnapshotTime: now.AddDate(0, 0, -90), ViewCount: 10},
			{VideoID: video.ID, SnapshotTime: now.AddDate(0, 0, -61), ViewCount: 20},
			{VideoID: video.ID, SnapshotTime: now.AddDate(0, 0, -10), ViewCount: 30},
		}))

		deleted, err := repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -60))
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		listed, err := repo.ListByVideo(ctx, video.ID, now.AddDate(0, 0, -365))
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, int64(30), listed[0].ViewCount)
	})
}
