package temporal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	sdktemporal "go.temporal.io/sdk/temporal"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
)

// Activities holds the dependencies of every GenerateAssets activity. The
// generator should use workflow.DirectStepper: a backend failure fails the
// activity attempt and the retry policy schedules the next one. Only the
// last attempt settles for the fallback.
type Activities struct {
	Tracker   *jobs.Tracker
	Generator *assets.Generator
}

// StartJob marks the job running under the calling workflow.
func (a *Activities) StartJob(ctx context.Context, jobID string) error {
	info := activity.GetInfo(ctx)
	return nonRetryableNotFound(a.Tracker.Start(ctx, jobID, info.WorkflowExecution.ID))
}

// MarkStep records one status transition.
func (a *Activities) MarkStep(ctx context.Context, in MarkStepInput) error {
	return nonRetryableNotFound(a.Tracker.MarkStep(ctx, in.JobID, in.Step, in.Status))
}

// Generate returns the activity that produces kind.
func (a *Activities) Generate(kind assets.Kind) func(context.Context, StepInput) (StepResult, error) {
	return func(ctx context.Context, in StepInput) (StepResult, error) {
		res := StepResult{Kind: kind}
		job, err := a.Tracker.Store().Get(ctx, in.JobID)
		if err != nil {
			return res, nonRetryableNotFound(err)
		}

		ctx = assets.WithJobID(ctx, in.JobID)
		r, err := a.Generator.Run(ctx, kind, job.Transcript)
		if err != nil {
			return res, sdktemporal.NewNonRetryableApplicationError(err.Error(), "unknown_kind", err)
		}
		// A cancelled activity produced a fallback, not a result.
		if err := ctx.Err(); err != nil {
			return res, err
		}

		attempt := activity.GetInfo(ctx).Attempt
		if r.Transient() && !lastAttempt(attempt, in.MaxAttempts) {
			activity.GetLogger(ctx).Warn("backend call failed, retrying activity",
				"job_id", in.JobID, "step", kind.StepName(), "attempt", attempt, "error", r.Err)
			return res, fmt.Errorf("%s attempt %d: %w", kind.StepName(), attempt, r.Err)
		}
		value, used := r.Value, r.UsedFallback

		raw, err := json.Marshal(value)
		if err != nil {
			return res, fmt.Errorf("failed to encode %s: %w", kind, err)
		}
		res.Value = raw
		res.UsedFallback = used
		activity.GetLogger(ctx).Info("asset generated", "job_id", in.JobID, "step", kind.StepName(), "fallback", used)
		return res, nil
	}
}

// StoreResult assembles the bundle and completes the job.
func (a *Activities) StoreResult(ctx context.Context, in StoreInput) error {
	b := &assets.Bundle{}
	for _, r := range in.Results {
		if err := b.SetJSON(r.Kind, r.Value, r.UsedFallback); err != nil {
			return sdktemporal.NewNonRetryableApplicationError(err.Error(), "bad_result", err)
		}
	}
	return nonRetryableNotFound(a.Tracker.Complete(ctx, in.JobID, b))
}

// FailJob records a workflow failure on the job.
func (a *Activities) FailJob(ctx context.Context, in FailInput) error {
	return nonRetryableNotFound(a.Tracker.Fail(ctx, in.JobID, errors.New(in.Error)))
}

// lastAttempt reports whether no retry follows attempt. Zero max attempts
// means the workflow default.
func lastAttempt(attempt int32, maxAttempts int) bool {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return int(attempt) >= maxAttempts
}

// nonRetryableNotFound stops retries for jobs that do not exist.
func nonRetryableNotFound(err error) error {
	if errors.Is(err, jobs.ErrNotFound) {
		return sdktemporal.NewNonRetryableApplicationError(err.Error(), "job_not_found", err)
	}
	return err
}
