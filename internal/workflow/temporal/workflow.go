package temporal

import (
	"encoding/json"
	"fmt"
	"time"

	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
)

const (
	WorkflowName = "GenerateAssets"

	ActivityStartJob    = "start-job"
	ActivityMarkStep    = "mark-step"
	ActivityStoreResult = "store-result"
	ActivityFailJob     = "fail-job"
)

// WorkflowID is the workflow ID used for a job, so a job runs at most once
// concurrently.
func WorkflowID(jobID string) string {
	return "generate-assets-" + jobID
}

// Input starts a GenerateAssets workflow. Activity options travel in the
// input so replays see the values the run started with.
type Input struct {
	JobID           string        `json:"jobId"`
	ActivityTimeout time.Duration `json:"activityTimeout"`
	MaxAttempts     int           `json:"maxAttempts"`
}

// StepInput is the input of a per-kind generation activity. MaxAttempts
// mirrors the retry policy so the activity knows when it runs for the last
// time.
type StepInput struct {
	JobID       string `json:"jobId"`
	MaxAttempts int    `json:"maxAttempts"`
}

// MarkStepInput is the input of the mark-step activity.
type MarkStepInput struct {
	JobID  string          `json:"jobId"`
	Step   jobs.Step       `json:"step"`
	Status jobs.StepStatus `json:"status"`
}

// StepResult is one kind's generated value.
type StepResult struct {
	Kind         assets.Kind     `json:"kind"`
	Value        json.RawMessage `json:"value"`
	UsedFallback bool            `json:"usedFallback"`
}

// StoreInput is the input of the store-result activity.
type StoreInput struct {
	JobID   string       `json:"jobId"`
	Results []StepResult `json:"results"`
}

// FailInput is the input of the fail-job activity.
type FailInput struct {
	JobID string `json:"jobId"`
	Error string `json:"error"`
}

// GenerateAssets marks the job running, generates every kind concurrently
// with one activity each, then stores the assembled bundle.
func GenerateAssets(ctx workflow.Context, in Input) error {
	if in.JobID == "" {
		return fmt.Errorf("generate assets: missing job id")
	}
	if in.ActivityTimeout <= 0 {
		in.ActivityTimeout = DefaultActivityTimeout
	}
	if in.MaxAttempts <= 0 {
		in.MaxAttempts = DefaultMaxAttempts
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: in.ActivityTimeout,
		RetryPolicy: &sdktemporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    int32(in.MaxAttempts),
		},
	})
	logger := workflow.GetLogger(ctx)

	if err := workflow.ExecuteActivity(ctx, ActivityStartJob, in.JobID).Get(ctx, nil); err != nil {
		return fail(ctx, in.JobID, err)
	}

	results := make([]StepResult, len(assets.Kinds))
	errs := make([]error, len(assets.Kinds))
	wg := workflow.NewWaitGroup(ctx)
	for i, kind := range assets.Kinds {
		wg.Add(1)
		workflow.Go(ctx, func(ctx workflow.Context) {
			defer wg.Done()
			results[i], errs[i] = runStep(ctx, StepInput{JobID: in.JobID, MaxAttempts: in.MaxAttempts}, kind)
		})
	}
	wg.Wait(ctx)

	for i, err := range errs {
		if err != nil {
			logger.Error("asset step failed", "step", assets.Kinds[i].StepName(), "error", err)
			return fail(ctx, in.JobID, err)
		}
	}

	store := StoreInput{JobID: in.JobID, Results: results}
	if err := workflow.ExecuteActivity(ctx, ActivityStoreResult, store).Get(ctx, nil); err != nil {
		return fail(ctx, in.JobID, err)
	}
	return nil
}

// runStep marks kind running, generates it and marks it completed.
func runStep(ctx workflow.Context, step StepInput, kind assets.Kind) (StepResult, error) {
	mark := func(status jobs.StepStatus) error {
		in := MarkStepInput{JobID: step.JobID, Step: jobs.AssetStep(kind), Status: status}
		return workflow.ExecuteActivity(ctx, ActivityMarkStep, in).Get(ctx, nil)
	}

	var res StepResult
	if err := mark(jobs.StepRunning); err != nil {
		return res, err
	}
	if err := workflow.ExecuteActivity(ctx, kind.StepName(), step).Get(ctx, &res); err != nil {
		return res, err
	}
	return res, mark(jobs.StepCompleted)
}

// fail records cause on the job and returns it.
func fail(ctx workflow.Context, jobID string, cause error) error {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &sdktemporal.RetryPolicy{MaximumAttempts: 5},
	})
	in := FailInput{JobID: jobID, Error: cause.Error()}
	if err := workflow.ExecuteActivity(ctx, ActivityFailJob, in).Get(ctx, nil); err != nil {
		workflow.GetLogger(ctx).Error("failed to record job failure", "job_id", jobID, "error", err)
	}
	return cause
}
