// Package temporal runs asset generation as a durable Temporal workflow.
package temporal

import (
	"strings"
	"time"
)

const (
	DefaultAddress         = "localhost:7233"
	DefaultNamespace       = "podsaas"
	DefaultTaskQueue       = "podsaas-assets"
	DefaultActivityTimeout = 5 * time.Minute
	DefaultMaxAttempts     = 3
)

// Config configures the Temporal client, worker and workflow options.
type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	// ActivityTimeout is the StartToCloseTimeout of every activity.
	ActivityTimeout time.Duration
	// MaxAttempts bounds activity retries.
	MaxAttempts int

	// AutoRegisterNamespace creates the namespace when it does not exist.
	// Meant for local development servers.
	AutoRegisterNamespace bool
	// DialMaxWait is how long Dial keeps retrying an unreachable server.
	DialMaxWait time.Duration
	// WorkerConcurrency bounds concurrent activity executions.
	WorkerConcurrency int
}

// WithDefaults fills zero fields.
func (c Config) WithDefaults() Config {
	c.Address = stringsOr(c.Address, DefaultAddress)
	c.Namespace = stringsOr(c.Namespace, DefaultNamespace)
	c.TaskQueue = stringsOr(c.TaskQueue, DefaultTaskQueue)
	if c.ActivityTimeout <= 0 {
		c.ActivityTimeout = DefaultActivityTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.WorkerConcurrency <= 0 {
		c.WorkerConcurrency = 6
	}
	return c
}

func stringsOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
