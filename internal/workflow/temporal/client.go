package temporal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"
	"google.golang.org/protobuf/types/known/durationpb"
)

const namespaceRetention = 7 * 24 * time.Hour

// Dial connects to Temporal, retrying until cfg.DialMaxWait elapses.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (client.Client, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	opts := client.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
		Logger:    sdklog.NewStructuredLogger(logger),
	}

	deadline := time.Now().Add(cfg.DialMaxWait)
	for attempt := 1; ; attempt++ {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		c, err := client.DialContext(dialCtx, opts)
		cancel()
		if err == nil {
			if attempt > 1 {
				logger.Info("connected to temporal", "address", cfg.Address, "namespace", cfg.Namespace, "attempts", attempt)
			}
			if cfg.AutoRegisterNamespace {
				if err := EnsureNamespace(ctx, cfg, logger); err != nil {
					c.Close()
					return nil, err
				}
			}
			return c, nil
		}

		if cfg.DialMaxWait <= 0 || time.Now().After(deadline) {
			return nil, fmt.Errorf("temporal dial failed (address=%s namespace=%s): %w", cfg.Address, cfg.Namespace, err)
		}
		logger.Warn("temporal not reachable, retrying", "address", cfg.Address, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(clampBackoff(250*time.Millisecond, 5*time.Second, attempt)):
		}
	}
}

// EnsureNamespace registers cfg.Namespace when it does not exist.
func EnsureNamespace(ctx context.Context, cfg Config, logger *slog.Logger) error {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	// The namespace client sends no namespace header, so it works before the
	// namespace exists.
	nsClient, err := client.NewNamespaceClient(client.Options{
		HostPort: cfg.Address,
		Logger:   sdklog.NewStructuredLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("temporal namespace ensure: init namespace client: %w", err)
	}
	defer nsClient.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = nsClient.Describe(ctx, cfg.Namespace)
	if err == nil {
		return nil
	}
	var nfe *serviceerror.NamespaceNotFound
	if !errors.As(err, &nfe) {
		return fmt.Errorf("temporal namespace ensure: describe namespace: %w", err)
	}

	err = nsClient.Register(ctx, &workflowservice.RegisterNamespaceRequest{
		Namespace:                        cfg.Namespace,
		Description:                      "podsaas auto-registered namespace",
		WorkflowExecutionRetentionPeriod: durationpb.New(namespaceRetention),
	})
	var exists *serviceerror.NamespaceAlreadyExists
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("temporal namespace ensure: register namespace: %w", err)
	}
	logger.Info("registered temporal namespace", "namespace", cfg.Namespace)
	return nil
}

// isRetryable reports whether a Temporal service error is transient.
func isRetryable(err error) bool {
	var unavailable *serviceerror.Unavailable
	var exhausted *serviceerror.ResourceExhausted
	var deadline *serviceerror.DeadlineExceeded
	switch {
	case errors.As(err, &unavailable), errors.As(err, &exhausted), errors.As(err, &deadline):
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func clampBackoff(base, max time.Duration, attempt int) time.Duration {
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if sleep >= max {
			return max
		}
	}
	return sleep
}
