package jobs

import (
	"context"
	"log/slog"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

// Tracker persists every job transition and publishes it.
type Tracker struct {
	store     *Store
	publisher Publisher
	logger    *slog.Logger
}

// NewTracker creates a tracker. A nil publisher discards updates.
func NewTracker(store *Store, publisher Publisher, logger *slog.Logger) *Tracker {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: store, publisher: publisher, logger: logger}
}

// Store returns the underlying job store.
func (t *Tracker) Store() *Store {
	return t.store
}

// Create validates the transcript and records a queued job.
func (t *Tracker) Create(ctx context.Context, projectID string, tr *transcript.Transcript) (*Job, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	job := NewJob(projectID, tr)
	if err := t.store.Create(ctx, job); err != nil {
		return nil, err
	}
	t.publish(ctx, job, StepTranscription)
	return job, nil
}

// Start marks the job running.
func (t *Tracker) Start(ctx context.Context, jobID, workflowID string) error {
	job, err := t.store.Start(ctx, jobID, workflowID)
	if err != nil {
		return err
	}
	t.publish(ctx, job, StepContentGeneration)
	return nil
}

// MarkStep records one step transition.
func (t *Tracker) MarkStep(ctx context.Context, jobID string, step Step, status StepStatus) error {
	job, err := t.store.UpdateStep(ctx, jobID, step, status)
	if err != nil {
		return err
	}
	t.publish(ctx, job, step)
	return nil
}

// Complete stores the bundle and completes the job.
func (t *Tracker) Complete(ctx context.Context, jobID string, b *assets.Bundle) error {
	job, err := t.store.StoreResult(ctx, jobID, b)
	if err != nil {
		return err
	}
	t.logger.Info("job completed", "id", jobID, "fallbacks", len(b.Fallbacks))
	t.publish(ctx, job, StepContentGeneration)
	return nil
}

// Fail records an infrastructure failure.
func (t *Tracker) Fail(ctx context.Context, jobID string, cause error) error {
	job, err := t.store.Fail(ctx, jobID, cause)
	if err != nil {
		return err
	}
	t.logger.Error("job failed", "id", jobID, "error", cause)
	t.publish(ctx, job, StepContentGeneration)
	return nil
}

// Observer returns a StepObserver that reports asset progress for jobID.
// Store errors are logged; they never interrupt generation.
func (t *Tracker) Observer(jobID string) assets.StepObserver {
	return func(ctx context.Context, kind assets.Kind, phase assets.Phase) {
		status := StepRunning
		if phase == assets.PhaseCompleted {
			status = StepCompleted
		}
		if err := t.MarkStep(context.WithoutCancel(ctx), jobID, AssetStep(kind), status); err != nil {
			t.logger.Warn("failed to record step", "id", jobID, "step", kind, "error", err)
		}
	}
}

func (t *Tracker) publish(ctx context.Context, job *Job, step Step) {
	if err := t.publisher.Publish(ctx, UpdateFor(job, step)); err != nil {
		t.logger.Warn("failed to publish job update", "id", job.ID, "step", step, "error", err)
	}
}
