package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
)

// Starter launches generation for a recorded job without waiting for it.
type Starter interface {
	StartJob(ctx context.Context, job *Job) error
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Tracker   *Tracker
	Generator *assets.Generator
	Logger    *slog.Logger
	// MaxJobs bounds how many jobs run at once. Zero means 4.
	MaxJobs int
}

// Runner executes jobs in-process.
type Runner struct {
	tracker   *Tracker
	generator *assets.Generator
	logger    *slog.Logger

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRunner creates a local runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Tracker == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		tracker:   cfg.Tracker,
		generator: cfg.Generator,
		logger:    cfg.Logger.With("component", "job_runner"),
		sem:       make(chan struct{}, cfg.MaxJobs),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// StartJob runs job in the background. The job outlives the caller's
// context; Stop cancels it.
func (r *Runner) StartJob(ctx context.Context, job *Job) error {
	select {
	case <-r.ctx.Done():
		return fmt.Errorf("runner is stopped")
	default:
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		select {
		case r.sem <- struct{}{}:
		case <-r.ctx.Done():
			_ = r.tracker.Fail(context.Background(), job.ID, r.ctx.Err())
			return
		}
		defer func() { <-r.sem }()

		if err := r.Run(r.ctx, job.ID); err != nil {
			r.logger.Error("job run failed", "id", job.ID, "error", err)
		}
	}()
	return nil
}

// Run executes jobID synchronously and returns the stored bundle.
// Generation problems end in fallbacks, so errors here are infrastructure
// errors and the job is marked failed.
func (r *Runner) Run(ctx context.Context, jobID string) error {
	job, err := r.tracker.Store().Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.State.Terminal() {
		return nil
	}

	if err := r.tracker.Start(ctx, jobID, ""); err != nil {
		return err
	}
	r.logger.Info("job started", "id", jobID)

	genCtx := assets.WithJobID(ctx, jobID)
	bundle, err := r.generator.Bundle(genCtx, job.Transcript, r.tracker.Observer(jobID))
	if err == nil {
		err = r.tracker.Complete(context.WithoutCancel(ctx), jobID, bundle)
	}
	if err != nil {
		if ferr := r.tracker.Fail(context.WithoutCancel(ctx), jobID, err); ferr != nil {
			return errors.Join(err, ferr)
		}
		return err
	}
	return nil
}

// Stop cancels running jobs and waits for them to finish.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}
