package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/parser"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

const maxCleanupInterval = 5 * time.Minute

// Orchestrator runs queued outline jobs on a fixed pool of workers.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. store may be nil.
func NewOrchestrator(cfg config.Config, store OutlineStore, stats *Stats, log *slog.Logger) *Orchestrator {
	opts := parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(store, stats, log, opts),
		log:    log,
		cfg:    cfg,
	}
}

// Start launches the worker goroutines and the job cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := range o.cfg.WorkerCount {
		o.wg.Add(1)
		go o.runWorker(runCtx, i)
	}

	o.wg.Add(1)
	go o.runCleanup(runCtx)

	o.log.Info("pipeline started", "workers", o.cfg.WorkerCount, "queue_size", cap(o.queue))
}

func (o *Orchestrator) runWorker(ctx context.Context, id int) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-o.queue:
			if !ok {
				return
			}
			start := time.Now()
			o.worker.Process(ctx, job)
			o.log.Debug("job finished", "worker", id, "job_id", job.ID,
				"status", job.Snapshot().Status, "duration_ms", time.Since(start).Milliseconds())
		}
	}
}

func (o *Orchestrator) runCleanup(ctx context.Context) {
	defer o.wg.Done()
	interval := o.cfg.JobTTL / 2
	if interval <= 0 || interval > maxCleanupInterval {
		interval = maxCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.jobs.Cleanup()
		}
	}
}

// Stop cancels running jobs and waits for the workers to exit. Submit must
// not be called after Stop.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
	o.log.Info("pipeline stopped", "pending_jobs", len(o.queue))
}

// Submit registers a job and queues it without blocking.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError(ErrQueueFull.Error())
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Worker returns the worker used for synchronous extraction.
func (o *Orchestrator) Worker() *Worker {
	return o.worker
}
