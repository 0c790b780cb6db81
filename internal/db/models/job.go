package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an AnalyzeJob.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// IsTerminal reports whether the status can never be left again.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailed
}

// AnalyzeJob is a durable record of an "analyze this URL for this user"
// request. Once claimed it is owned exclusively by the worker; the observed
// status sequence is always a prefix of PENDING, RUNNING, {SUCCESS|FAILED}.
type AnalyzeJob struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	URL        string     `db:"url" json:"url"`
	Status     JobStatus  `db:"status" json:"status"`
	Progress   int        `db:"progress" json:"progress"`
	Message    string     `db:"message" json:"message,omitempty"`
	Error      string     `db:"error" json:"error,omitempty"`
	ChannelID  string     `db:"channel_id" json:"channel_id,omitempty"`
	StartedAt  *time.Time `db:"started_at" json:"started_at,omitempty"`
	FinishedAt *time.Time `db:"finished_at" json:"finished_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// NewAnalyzeJob creates a pending job for the given user and URL.
func NewAnalyzeJob(userID int64, url string) *AnalyzeJob {
	now := time.Now()
	return &AnalyzeJob{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       url,
		Status:    JobStatusPending,
		Progress:  0,
		Message:   "Waiting to be processed",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkRunning transitions the job into RUNNING and stamps the start time.
func (j *AnalyzeJob) MarkRunning() {
	now := time.Now()
	j.Status = JobStatusRunning
	if j.Progress < 5 {
		j.Progress = 5
	}
	j.Message = "Analyzing channel data..."
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkSuccess records the resolved channel id and completes the job.
func (j *AnalyzeJob) MarkSuccess(channelID, message string) {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.Progress = 100
	j.ChannelID = channelID
	j.Message = message
	j.FinishedAt = &now
	j.UpdatedAt = now
}

// MarkFailed records the error text verbatim. Progress is left as-is.
func (j *AnalyzeJob) MarkFailed(errMsg string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.Error = errMsg
	j.Message = "Analysis failed"
	j.FinishedAt = &now
	j.UpdatedAt = now
}
