package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
)

func waitForStatus(t *testing.T, job *Job, want JobStatus) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %q, last %q", want, job.Snapshot().Status)
	return JobSnapshot{}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 10, JobTTL: time.Hour}
	orch := NewOrchestrator(cfg, nil, NewStats(time.Hour), testLogger())
	orch.Start(context.Background())
	defer orch.Stop()

	job := NewJob("doc.md", "", []byte(sampleMarkdown))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitForStatus(t, job, StatusCompleted)
	if snap.Outline == nil || snap.Outline.Title != "Title" {
		t.Errorf("expected outline titled Title, got %+v", snap.Outline)
	}
	if orch.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable by ID")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	// Not started: nothing drains the queue.
	orch := NewOrchestrator(cfg, nil, nil, testLogger())

	if err := orch.Submit(NewJob("a.txt", "", []byte("a"))); err != nil {
		t.Fatalf("expected first submit to succeed, got %v", err)
	}
	overflow := NewJob("b.txt", "", []byte("b"))
	if err := orch.Submit(overflow); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if overflow.Snapshot().Status != StatusFailed {
		t.Errorf("expected overflow job to fail, got %q", overflow.Snapshot().Status)
	}
	if orch.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", orch.QueueDepth())
	}
}
