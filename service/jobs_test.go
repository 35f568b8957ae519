package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"worker-transcribe/config"
	"worker-transcribe/constant"
	"worker-transcribe/dto"
	"worker-transcribe/entities"
	"worker-transcribe/pkg/media"
	"worker-transcribe/pkg/transcribe"
)

type jobFixture struct {
	repo        *fakeRepo
	tool        *fakeTool
	transcriber *fakeTranscriber
	store       *fakeStore
	svc         JobService
	message     dto.TranscribeJobMessage
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	f := &jobFixture{
		repo:        newFakeRepo(),
		tool:        &fakeTool{duration: 30},
		transcriber: &fakeTranscriber{},
		store:       &fakeStore{downloadContent: mp3Bytes(500)},
	}
	cfg := &config.Config{
		Upload: config.Upload{
			MaxInputBytes: 1e9,
			MaxChunkBytes: 24e6,
			SystemAPIKey:  "sk-system",
			StagingRoot:   t.TempDir(),
		},
	}
	f.svc = NewJobService(f.repo, f.tool, f.transcriber, f.store, cfg)

	jobID := uuid.New()
	userID := uuid.New()
	f.repo.credits[userID] = 100
	f.repo.jobs[jobID] = &entities.TranscribeJob{
		ID:     jobID,
		UserID: userID,
		Status: constant.JobStatusPending,
	}
	f.message = dto.TranscribeJobMessage{
		JobID:       jobID,
		ObjectPath:  "uploads/raw/recording.mp3",
		UserID:      userID,
		ProjectName: "Staff meeting",
		Description: "weekly sync",
	}
	return f
}

func statusSequence(t *testing.T, got []constant.JobStatus, want ...constant.JobStatus) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("status updates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("status updates = %v, want %v", got, want)
		}
	}
}

func TestProcessJobCompletes(t *testing.T) {
	f := newJobFixture(t)

	if err := f.svc.ProcessJob(context.Background(), f.message); err != nil {
		t.Fatalf("ProcessJob() error = %v", err)
	}

	statusSequence(t, f.repo.statusUpdates, constant.JobStatusProcessing, constant.JobStatusCompleted)
	if len(f.repo.created) != 1 {
		t.Fatalf("created %d projects, want 1", len(f.repo.created))
	}
	if f.repo.created[0].ProjectName != "Staff meeting" {
		t.Errorf("ProjectName = %q", f.repo.created[0].ProjectName)
	}
}

func TestProcessJobSkipsNonPending(t *testing.T) {
	f := newJobFixture(t)
	f.repo.jobs[f.message.JobID].Status = constant.JobStatusCompleted

	if err := f.svc.ProcessJob(context.Background(), f.message); err != nil {
		t.Fatalf("ProcessJob() error = %v", err)
	}

	if len(f.repo.statusUpdates) != 0 {
		t.Errorf("status updates = %v, want none", f.repo.statusUpdates)
	}
	if len(f.transcriber.paths) != 0 {
		t.Error("a non-pending job must not be processed")
	}
}

func TestProcessJobNonRetryableFailure(t *testing.T) {
	f := newJobFixture(t)
	f.tool.probeErr = fmt.Errorf("%w: exit status 1", media.ErrProbeFailed)

	// Non-retryable failures are absorbed so the message is not redelivered.
	if err := f.svc.ProcessJob(context.Background(), f.message); err != nil {
		t.Fatalf("ProcessJob() error = %v, want nil for a non-retryable failure", err)
	}

	statusSequence(t, f.repo.statusUpdates, constant.JobStatusProcessing, constant.JobStatusFailed)
	if len(f.repo.created) != 0 {
		t.Error("no project may exist after a failed run")
	}
}

func TestProcessJobRetryableFailure(t *testing.T) {
	f := newJobFixture(t)
	f.transcriber.failAt = 1
	f.transcriber.err = fmt.Errorf("%w: upstream 500", transcribe.ErrTranscriptionFailed)

	err := f.svc.ProcessJob(context.Background(), f.message)
	if err == nil {
		t.Fatal("ProcessJob() should surface a retryable failure")
	}

	statusSequence(t, f.repo.statusUpdates, constant.JobStatusProcessing, constant.JobStatusPending)
}

func TestProcessJobInvalidFields(t *testing.T) {
	f := newJobFixture(t)
	f.message.ProjectName = ""

	if err := f.svc.ProcessJob(context.Background(), f.message); err != nil {
		t.Fatalf("ProcessJob() error = %v, want nil for a validation failure", err)
	}

	statusSequence(t, f.repo.statusUpdates, constant.JobStatusProcessing, constant.JobStatusFailed)
}
