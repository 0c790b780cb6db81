package service

import (
	"context"
	"strings"
	"testing"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/config"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
)

func TestProcessNextSuccess(t *testing.T) {
	f := newSyncFixture(config.SyncConfig{})
	f.seedChannel(sampleChannelInfo())

	jobRepo := &fakeJobRepo{}
	job := models.NewAnalyzeJob(7, "https://www.youtube.com/channel/UCabc123")
	jobRepo.pending = append(jobRepo.pending, job)

	worker := NewJobWorker(jobRepo, f.svc, 0)
	worker.ProcessNext(context.Background())

	if len(jobRepo.updated) != 1 {
		t.Fatalf("expected 1 job update, got %d", len(jobRepo.updated))
	}

	got := jobRepo.updated[0]
	if got.Status != models.JobStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("expected progress 100, got %d", got.Progress)
	}
	if got.ChannelID != "UCabc123" {
		t.Errorf("expected resolved channel id, got %q", got.ChannelID)
	}
	if got.Message != "Channel data synced successfully" {
		t.Errorf("unexpected message %q", got.Message)
	}
	if got.FinishedAt == nil {
		t.Error("expected finished_at set")
	}
}

func TestProcessNextFailure(t *testing.T) {
	f := newSyncFixture(config.SyncConfig{})

	jobRepo := &fakeJobRepo{}
	job := models.NewAnalyzeJob(7, "not-a-url")
	jobRepo.pending = append(jobRepo.pending, job)

	worker := NewJobWorker(jobRepo, f.svc, 0)
	worker.ProcessNext(context.Background())

	if len(jobRepo.updated) != 1 {
		t.Fatalf("expected 1 job update, got %d", len(jobRepo.updated))
	}

	got := jobRepo.updated[0]
	if got.Status != models.JobStatusFailed {
		t.Errorf("expected FAILED, got %s", got.Status)
	}
	if !strings.Contains(got.Error, "invalid YouTube URL: not-a-url") {
		t.Errorf("expected verbatim error text, got %q", got.Error)
	}
	if got.Message != "Analysis failed" {
		t.Errorf("unexpected message %q", got.Message)
	}
	if got.Progress != 5 {
		t.Errorf("expected progress untouched at 5, got %d", got.Progress)
	}
}

func TestProcessNextEmptyQueue(t *testing.T) {
	f := newSyncFixture(config.SyncConfig{})
	jobRepo := &fakeJobRepo{}

	worker := NewJobWorker(jobRepo, f.svc, 0)
	worker.ProcessNext(context.Background())

	if len(jobRepo.updated) != 0 {
		t.Errorf("expected no updates on empty queue, got %d", len(jobRepo.updated))
	}
}

func TestProcessNextOneJobPerCall(t *testing.T) {
	f := newSyncFixture(config.SyncConfig{})
	f.seedChannel(sampleChannelInfo())

	jobRepo := &fakeJobRepo{}
	jobRepo.pending = append(jobRepo.pending,
		models.NewAnalyzeJob(1, "https://www.youtube.com/channel/UCabc123"),
		models.NewAnalyzeJob(2, "https://www.youtube.com/channel/UCabc123"),
	)

	worker := NewJobWorker(jobRepo, f.svc, 0)
	worker.ProcessNext(context.Background())

	if len(jobRepo.updated) != 1 {
		t.Errorf("expected exactly one job processed per call, got %d", len(jobRepo.updated))
	}
	if jobRepo.pending[1].Status != models.JobStatusPending {
		t.Errorf("expected second job untouched, got %s", jobRepo.pending[1].Status)
	}
}
