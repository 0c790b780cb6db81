package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepository_CreateAndGet(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewJobRepository(td.Pool)
	ctx := context.Background()

	t.Run("creates pending job and reads it back", func(t *testing.T) {
		td.TruncateTables(t)

		job := models.NewAnalyzeJob(1, "https://www.youtube.com/@somechannel")
		require.NoError(t, repo.Create(ctx, job))

		retrieved, err := repo.GetByIDForUser(ctx, job.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusPending, retrieved.Status)
		assert.Equal(t, 0, retrieved.Progress)
		assert.Equal(t, "Waiting to be processed", retrieved.Message)
	})

	t.Run("does not expose jobs of other users", func(t *testing.T) {
		td.TruncateTables(t)

		job := models.NewAnalyzeJob(1, "https://www.youtube.com/@somechannel")
		require.NoError(t, repo.Create(ctx, job))

		_, err := repo.GetByIDForUser(ctx, job.ID, 2)
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := repo.GetByIDForUser(ctx, uuid.New(), 1)
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestJobRepository_ClaimNextPending(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewJobRepository(td.Pool)
	ctx := context.Background()

	t.Run("claims oldest job first and marks it running", func(t *testing.T) {
		td.TruncateTables(t)

		first := models.NewAnalyzeJob(1, "https://www.youtube.com/@first")
		require.NoError(t, repo.Create(ctx, first))
		second := models.NewAnalyzeJob(1, "https://www.youtube.com/@second")
		require.NoError(t, repo.Create(ctx, second))

		claimed, err := repo.ClaimNextPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, claimed.ID)
		assert.Equal(t, models.JobStatusRunning, claimed.Status)
		assert.Equal(t, 5, claimed.Progress)
		assert.Equal(t, "Analyzing channel data...", claimed.Message)
		require.NotNil(t, claimed.StartedAt)
	})

	t.Run("returns not found when queue is empty", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := repo.ClaimNextPending(ctx)
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})

	t.Run("concurrent workers claim disjoint jobs", func(t *testing.T) {
		td.TruncateTables(t)

		const jobs = 4
		for i := 0; i < jobs; i++ {
			require.NoError(t, repo.Create(ctx, models.NewAnalyzeJob(1, "https://www.youtube.com/@c")))
		}

		var mu sync.Mutex
		seen := make(map[uuid.UUID]int)

		var wg sync.WaitGroup
		for i := 0; i < jobs; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				claimed, err := repo.ClaimNextPending(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[claimed.ID]++
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, seen, jobs)
		for _, n := range seen {
			assert.Equal(t, 1, n)
		}
	})
}

func TestJobRepository_Update(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewJobRepository(td.Pool)
	ctx := context.Background()

	t.Run("persists a successful completion", func(t *testing.T) {
		td.TruncateTables(t)

		job := models.NewAnalyzeJob(1, "https://www.youtube.com/@somechannel")
		require.NoError(t, repo.Create(ctx, job))

		claimed, err := repo.ClaimNextPending(ctx)
		require.NoError(t, err)

		claimed.MarkSuccess("UC123456789", "Analysis complete")
		require.NoError(t, repo.Update(ctx, claimed))

		retrieved, err := repo.GetByIDForUser(ctx, job.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusSuccess, retrieved.Status)
		assert.Equal(t, 100, retrieved.Progress)
		assert.Equal(t, "UC123456789", retrieved.ChannelID)
		require.NotNil(t, retrieved.FinishedAt)
	})

	t.Run("persists a failure with the error text intact", func(t *testing.T) {
		td.TruncateTables(t)

		job := models.NewAnalyzeJob(1, "not-a-url")
		require.NoError(t, repo.Create(ctx, job))

		claimed, err := repo.ClaimNextPending(ctx)
		require.NoError(t, err)

		claimed.MarkFailed("invalid YouTube URL: not-a-url")
		require.NoError(t, repo.Update(ctx, claimed))

		retrieved, err := repo.GetByIDForUser(ctx, job.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusFailed, retrieved.Status)
		assert.Equal(t, "invalid YouTube URL: not-a-url", retrieved.Error)
		assert.Equal(t, "Analysis failed", retrieved.Message)
		// Failure keeps whatever progress the run had reached
		assert.Equal(t, 5, retrieved.Progress)
	})
}
