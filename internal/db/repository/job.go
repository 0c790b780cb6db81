package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
)

// JobRepository defines operations for managing analyze jobs.
type JobRepository interface {
	// Create persists a new job in its initial state.
	Create(ctx context.Context, job *models.AnalyzeJob) error

	// GetByIDForUser retrieves a job by id, scoped to its owning user.
	GetByIDForUser(ctx context.Context, id uuid.UUID, userID int64) (*models.AnalyzeJob, error)

	// ClaimNextPending atomically claims the oldest pending job and
	// transitions it to RUNNING. Returns db.ErrNotFound when no pending
	// job exists. Concurrent workers never claim the same job.
	ClaimNextPending(ctx context.Context) (*models.AnalyzeJob, error)

	// Update persists a job's mutable fields.
	Update(ctx context.Context, job *models.AnalyzeJob) error
}

const jobColumns = `id, user_id, url, status, progress, message, error, channel_id,
	       started_at, finished_at, created_at, updated_at`

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

func (r *jobRepository) Create(ctx context.Context, job *models.AnalyzeJob) error {
	query := `
		INSERT INTO analyze_jobs (id, user_id, url, status, progress, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		job.ID,
		job.UserID,
		job.URL,
		job.Status,
		job.Progress,
		job.Message,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "create analyze job")
	}

	return nil
}

func (r *jobRepository) GetByIDForUser(ctx context.Context, id uuid.UUID, userID int64) (*models.AnalyzeJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM analyze_jobs
		WHERE id = $1 AND user_id = $2
	`

	job := &models.AnalyzeJob{}
	if err := scanJob(r.pool.QueryRow(ctx, query, id, userID), job); err != nil {
		return nil, db.WrapError(err, "get analyze job")
	}

	return job, nil
}

// ClaimNextPending uses a single conditional UPDATE over a SKIP LOCKED
// subquery, so two workers racing on the same queue observe disjoint jobs.
func (r *jobRepository) ClaimNextPending(ctx context.Context) (*models.AnalyzeJob, error) {
	query := `
		UPDATE analyze_jobs
		SET status = 'RUNNING',
		    progress = GREATEST(progress, 5),
		    message = 'Analyzing channel data...',
		    started_at = NOW(),
		    updated_at = NOW()
		WHERE id = (
			SELECT id FROM analyze_jobs
			WHERE status = 'PENDING'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns + `
	`

	job := &models.AnalyzeJob{}
	if err := scanJob(r.pool.QueryRow(ctx, query), job); err != nil {
		return nil, db.WrapError(err, "claim next pending job")
	}

	return job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.AnalyzeJob) error {
	query := `
		UPDATE analyze_jobs
		SET status = $2,
		    progress = $3,
		    message = $4,
		    error = $5,
		    channel_id = $6,
		    started_at = $7,
		    finished_at = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		job.ID,
		job.Status,
		job.Progress,
		job.Message,
		job.Error,
		job.ChannelID,
		job.StartedAt,
		job.FinishedAt,
	).Scan(&job.UpdatedAt)

	if err != nil {
		return db.WrapError(err, "update analyze job")
	}

	return nil
}

func scanJob(row rowScanner, job *models.AnalyzeJob) error {
	return row.Scan(
		&job.ID,
		&job.UserID,
		&job.URL,
		&job.Status,
		&job.Progress,
		&job.Message,
		&job.Error,
		&job.ChannelID,
		&job.StartedAt,
		&job.FinishedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
}
