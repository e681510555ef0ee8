package main

import (
	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running podsaas server via HTTP.

These commands require a running server (podsaas serve).
Use --server to specify a custom server URL.

Examples:
  podsaas api health                        # Check server health
  podsaas api jobs create episode.json -p p1 # Start asset generation
  podsaas api jobs status <id>              # Poll a job's step status
  podsaas api metrics steps --job-id <id>   # Latency and tokens per step
  podsaas api generate titles episode.json  # Generate one asset synchronously`,
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Job management commands",
}

var llmcallsCmd = &cobra.Command{
	Use:   "llmcalls",
	Short: "LLM call history commands",
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "LLM usage metrics commands",
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompt inspection commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func addAll(parent *cobra.Command, eps []api.Endpoint) {
	for _, ep := range eps {
		parent.AddCommand(ep.Command(getServerURL))
	}
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	addAll(apiCmd, endpoints.ServerCommands())
	addAll(jobsCmd, endpoints.JobCommands())
	addAll(llmcallsCmd, endpoints.LLMCallCommands())
	addAll(metricsCmd, endpoints.MetricsCommands())
	addAll(promptsCmd, endpoints.PromptCommands())

	apiCmd.AddCommand(jobsCmd)
	apiCmd.AddCommand(llmcallsCmd)
	apiCmd.AddCommand(metricsCmd)
	apiCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(apiCmd)
}
