// Package worker runs periodic background jobs inside the server process.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultJobTimeout bounds a single run when Config.JobTimeout is unset.
const DefaultJobTimeout = 5 * time.Minute

// Job is a unit of periodic work. Name is used in logs.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often each job runs
	PollInterval time.Duration

	// JobTimeout bounds a single run. Zero means DefaultJobTimeout. It is
	// independent of PollInterval: a run may span several ticks.
	JobTimeout time.Duration

	// RunOnStart runs every job once before the first tick
	RunOnStart bool
}

// Worker runs jobs on a fixed interval. A job still running when its next
// tick arrives is not started again.
type Worker struct {
	config Config
	jobs   []Job
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewWorker creates a new background job worker
func NewWorker(config Config, logger *slog.Logger, jobs ...Job) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 15 * time.Minute
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultJobTimeout
	}

	return &Worker{
		config: config,
		jobs:   jobs,
		logger: logger,
	}
}

// Start runs jobs until the context is cancelled, then waits for in-flight
// runs to return.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"poll_interval", w.config.PollInterval,
		"jobs", len(w.jobs),
	)

	// One slot per job
	sems := make([]chan struct{}, len(w.jobs))
	for i := range sems {
		sems[i] = make(chan struct{}, 1)
	}

	dispatch := func() {
		for i, job := range w.jobs {
			select {
			case sems[i] <- struct{}{}:
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sems[i] }()
					w.runJob(ctx, job)
				}()
			default:
				w.logger.Warn("job still running, skipping tick",
					"worker_id", w.config.WorkerID,
					"job", job.Name(),
				)
			}
		}
	}

	if w.config.RunOnStart {
		dispatch()
	}

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			w.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			dispatch()
		}
	}
}

func (w *Worker) runJob(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			w.logger.Error("job panicked", "job", job.Name(), "panic", rec)
		}
	}()

	if err := job.Run(jobCtx); err != nil {
		w.logger.Error("job failed",
			"worker_id", w.config.WorkerID,
			"job", job.Name(),
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	w.logger.Debug("job completed",
		"job", job.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
