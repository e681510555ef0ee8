package endpoints

import (
	"github.com/nagdatt/ai-podcast-saas/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Job endpoints
		&CreateJobEndpoint{},
		&ListJobsEndpoint{},
		&GetJobEndpoint{},
		&JobStatusEndpoint{},

		// Single asset generation
		&GenerateEndpoint{},

		// LLM call history endpoints
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
		&LLMCallCountsEndpoint{},

		// Metrics endpoints
		&MetricsSummaryEndpoint{},
		&MetricsStepsEndpoint{},

		// Prompt endpoints
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}

// JobCommands returns endpoints for job operations.
// This groups job-related commands under "jobs" subcommand.
func JobCommands() []api.Endpoint {
	return []api.Endpoint{
		&CreateJobEndpoint{},
		&ListJobsEndpoint{},
		&GetJobEndpoint{},
		&JobStatusEndpoint{},
	}
}

// LLMCallCommands returns endpoints for LLM call history operations.
// This groups llmcall-related commands under "llmcalls" subcommand.
func LLMCallCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
		&LLMCallCountsEndpoint{},
	}
}

// MetricsCommands returns endpoints for LLM usage metrics.
func MetricsCommands() []api.Endpoint {
	return []api.Endpoint{
		&MetricsSummaryEndpoint{},
		&MetricsStepsEndpoint{},
	}
}

// PromptCommands returns endpoints for prompt operations.
func PromptCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
	}
}

// ServerCommands returns the endpoints that sit directly under "api".
func ServerCommands() []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},
		&GenerateEndpoint{},
		&SwaggerEndpoint{},
	}
}
