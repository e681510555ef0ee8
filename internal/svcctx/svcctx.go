// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/home"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/llmcall"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	DB           *gorm.DB
	Tracker      *jobs.Tracker
	Starter      jobs.Starter
	Generator    *assets.Generator
	Registry     *providers.Registry
	Pool         *jobs.ProviderPool
	Prompts      *prompts.Registry
	LLMCallStore *llmcall.Store
	Logger       *slog.Logger
	Home         *home.Dir

	// Mode names how jobs execute: "local" or "temporal".
	Mode string
	// Dependencies checked by readiness, keyed by name.
	Dependencies map[string]Pinger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// DBFrom extracts the database handle from context.
func DBFrom(ctx context.Context) *gorm.DB {
	if s := ServicesFrom(ctx); s != nil {
		return s.DB
	}
	return nil
}

// TrackerFrom extracts the job tracker from context.
func TrackerFrom(ctx context.Context) *jobs.Tracker {
	if s := ServicesFrom(ctx); s != nil {
		return s.Tracker
	}
	return nil
}

// StarterFrom extracts the job starter from context.
func StarterFrom(ctx context.Context) jobs.Starter {
	if s := ServicesFrom(ctx); s != nil {
		return s.Starter
	}
	return nil
}

// GeneratorFrom extracts the asset generator from context.
func GeneratorFrom(ctx context.Context) *assets.Generator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Generator
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// PromptsFrom extracts the prompt registry from context.
func PromptsFrom(ctx context.Context) *prompts.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Prompts
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// LLMCallStoreFrom extracts the LLM call store from context.
func LLMCallStoreFrom(ctx context.Context) *llmcall.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.LLMCallStore
	}
	return nil
}
