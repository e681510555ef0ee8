package temporal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
)

// Registrar is the registration surface shared by worker.Worker and the
// test environment.
type Registrar interface {
	RegisterWorkflowWithOptions(w any, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a any, options activity.RegisterOptions)
}

// Register adds the GenerateAssets workflow and its activities to r.
func Register(r Registrar, acts *Activities) {
	r.RegisterWorkflowWithOptions(GenerateAssets, workflow.RegisterOptions{Name: WorkflowName})
	r.RegisterActivityWithOptions(acts.StartJob, activity.RegisterOptions{Name: ActivityStartJob})
	r.RegisterActivityWithOptions(acts.MarkStep, activity.RegisterOptions{Name: ActivityMarkStep})
	r.RegisterActivityWithOptions(acts.StoreResult, activity.RegisterOptions{Name: ActivityStoreResult})
	r.RegisterActivityWithOptions(acts.FailJob, activity.RegisterOptions{Name: ActivityFailJob})
	for _, kind := range assets.Kinds {
		r.RegisterActivityWithOptions(acts.Generate(kind), activity.RegisterOptions{Name: kind.StepName()})
	}
}

// Worker polls the task queue and runs GenerateAssets.
type Worker struct {
	client client.Client
	cfg    Config
	acts   *Activities
	logger *slog.Logger
}

// NewWorker creates a worker runner.
func NewWorker(c client.Client, cfg Config, acts *Activities, logger *slog.Logger) (*Worker, error) {
	if c == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if acts == nil || acts.Tracker == nil || acts.Generator == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{client: c, cfg: cfg.WithDefaults(), acts: acts, logger: logger}, nil
}

// Run starts the worker and blocks until ctx is done. Start failures that
// look transient are retried with backoff.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("starting temporal worker", "address", w.cfg.Address, "namespace", w.cfg.Namespace, "task_queue", w.cfg.TaskQueue)

	for attempt := 1; ; attempt++ {
		wk := worker.New(w.client, w.cfg.TaskQueue, worker.Options{
			MaxConcurrentActivityExecutionSize:     w.cfg.WorkerConcurrency,
			MaxConcurrentWorkflowTaskExecutionSize: w.cfg.WorkerConcurrency,
		})
		Register(wk, w.acts)

		err := wk.Start()
		if err == nil {
			w.logger.Info("temporal worker started", "task_queue", w.cfg.TaskQueue, "attempts", attempt)
			<-ctx.Done()
			wk.Stop()
			w.logger.Info("temporal worker stopped")
			return nil
		}
		wk.Stop()

		var nfe *serviceerror.NamespaceNotFound
		if errors.As(err, &nfe) {
			if !w.cfg.AutoRegisterNamespace {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", w.cfg.Namespace, err)
			}
			if err := EnsureNamespace(ctx, w.cfg, w.logger); err != nil {
				return err
			}
		} else if !isRetryable(err) {
			return fmt.Errorf("failed to start temporal worker: %w", err)
		}

		w.logger.Warn("temporal worker failed to start, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(clampBackoff(250*time.Millisecond, 5*time.Second, attempt)):
		}
	}
}

// Starter starts GenerateAssets workflows for jobs.
type Starter struct {
	client client.Client
	cfg    Config
	logger *slog.Logger
}

var _ jobs.Starter = (*Starter)(nil)

// NewStarter creates a workflow starter.
func NewStarter(c client.Client, cfg Config, logger *slog.Logger) *Starter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Starter{client: c, cfg: cfg.WithDefaults(), logger: logger}
}

// StartJob starts the workflow for job and returns once it is accepted.
func (s *Starter) StartJob(ctx context.Context, job *jobs.Job) error {
	opts := client.StartWorkflowOptions{
		ID:        WorkflowID(job.ID),
		TaskQueue: s.cfg.TaskQueue,
	}
	in := Input{
		JobID:           job.ID,
		ActivityTimeout: s.cfg.ActivityTimeout,
		MaxAttempts:     s.cfg.MaxAttempts,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, WorkflowName, in)
	if err != nil {
		return fmt.Errorf("failed to start workflow: %w", err)
	}
	s.logger.Info("workflow started", "job_id", job.ID, "workflow_id", run.GetID(), "run_id", run.GetRunID())
	return nil
}

// Ping checks that the Temporal frontend answers.
func (s *Starter) Ping(ctx context.Context) error {
	_, err := s.client.CheckHealth(ctx, &client.CheckHealthRequest{})
	return err
}
