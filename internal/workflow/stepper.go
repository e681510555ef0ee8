// Package workflow provides the named-step capability generation calls run
// under. A Stepper decides how a step is retried; the pipeline itself never
// retries.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/nagdatt/ai-podcast-saas/internal/structured"
)

// Step is one named unit of work returning raw model text.
type Step func(ctx context.Context) (string, error)

// Stepper runs a named step.
type Stepper interface {
	Run(ctx context.Context, name string, step Step) (string, error)
}

// Wrap returns a caller whose every invocation runs as the named step.
func Wrap(s Stepper, name string, caller structured.Caller) structured.Caller {
	return func(ctx context.Context, p structured.Prompt) (string, error) {
		return s.Run(ctx, name, func(ctx context.Context) (string, error) {
			return caller(ctx, p)
		})
	}
}

// DirectStepper runs steps once. Used where something outside the process
// (a Temporal activity retry policy) already owns retries.
type DirectStepper struct{}

func (DirectStepper) Run(ctx context.Context, name string, step Step) (string, error) {
	return step(ctx)
}

// LocalStepper retries failed steps in-process with exponential backoff.
type LocalStepper struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
	Logger   *slog.Logger
}

// NewLocalStepper creates a retrying stepper. Zero values get defaults of
// three attempts starting at one second.
func NewLocalStepper(attempts uint, delay time.Duration, logger *slog.Logger) *LocalStepper {
	if attempts == 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalStepper{
		Attempts: attempts,
		Delay:    delay,
		MaxDelay: 30 * delay,
		Logger:   logger,
	}
}

// Run executes step until it succeeds, attempts run out, or ctx is done.
// Context errors are never retried.
func (s *LocalStepper) Run(ctx context.Context, name string, step Step) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return step(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(s.Attempts),
		retry.Delay(s.Delay),
		retry.MaxDelay(s.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			s.Logger.Warn("step failed, retrying", "step", name, "attempt", n+1, "error", err)
		}),
	)
}

var (
	_ Stepper = DirectStepper{}
	_ Stepper = (*LocalStepper)(nil)
)
