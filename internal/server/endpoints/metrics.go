package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/metrics"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
)

// MetricsSummaryResponse is the response for summary queries.
type MetricsSummaryResponse struct {
	metrics.Summary
	TokensByProvider map[string]int `json:"tokens_by_provider"`
}

// MetricsSummaryEndpoint handles GET /api/metrics/summary.
type MetricsSummaryEndpoint struct{}

func (e *MetricsSummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/summary", e.handler
}

func (e *MetricsSummaryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		LLM usage summary
//	@Description	Token, latency and cost totals over recorded LLM calls
//	@Tags			metrics
//	@Produce		json
//	@Param			job_id		query		string	false	"Filter by job ID"
//	@Param			step		query		string	false	"Filter by step name"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Success		200			{object}	MetricsSummaryResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/metrics/summary [get]
func (e *MetricsSummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.LLMCallStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "LLM call store not available")
		return
	}
	query := metrics.NewQuery(store)

	q := r.URL.Query()
	f := metrics.Filter{
		JobID:    q.Get("job_id"),
		Step:     q.Get("step"),
		Provider: q.Get("provider"),
		Model:    q.Get("model"),
	}

	summary, err := query.GetSummary(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	byProvider, err := query.TokensByProvider(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MetricsSummaryResponse{Summary: *summary, TokensByProvider: byProvider})
}

func (e *MetricsSummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var jobID, step, provider, model string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Get LLM usage summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if jobID != "" {
				params.Set("job_id", jobID)
			}
			if step != "" {
				params.Set("step", step)
			}
			if provider != "" {
				params.Set("provider", provider)
			}
			if model != "" {
				params.Set("model", model)
			}
			path := "/api/metrics/summary"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			client := api.NewClient(getServerURL())
			var resp MetricsSummaryResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			fmt.Printf("Metrics Summary\n")
			fmt.Printf("===============\n")
			fmt.Printf("  Count:         %d\n", resp.Count)
			fmt.Printf("  Success:       %d\n", resp.SuccessCount)
			fmt.Printf("  Errors:        %d\n", resp.ErrorCount)
			fmt.Println()
			fmt.Printf("  Input Tokens:  %d\n", resp.InputTokens)
			fmt.Printf("  Output Tokens: %d\n", resp.OutputTokens)
			fmt.Printf("  Avg Tokens:    %.1f\n", resp.AvgTokens)
			fmt.Println()
			fmt.Printf("  Total Time:    %s\n", time.Duration(resp.TotalTimeMs)*time.Millisecond)
			fmt.Printf("  Avg Time:      %.0fms\n", resp.AvgTimeMs)
			if resp.TotalCostUSD > 0 {
				fmt.Printf("  Total Cost:    $%.4f\n", resp.TotalCostUSD)
			}
			if len(resp.TokensByProvider) > 0 {
				fmt.Println()
				for _, name := range sortedKeys(resp.TokensByProvider) {
					fmt.Printf("  %-13s %d tokens\n", name+":", resp.TokensByProvider[name])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "Filter by job ID")
	cmd.Flags().StringVar(&step, "step", "", "Filter by step name (e.g. generate-titles)")
	cmd.Flags().StringVar(&provider, "provider", "", "Filter by provider")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model")
	return cmd
}

// MetricsStepsResponse holds detailed stats per generation step.
type MetricsStepsResponse struct {
	JobID string                            `json:"job_id,omitempty"`
	Steps map[string]*metrics.DetailedStats `json:"steps"`
}

// MetricsStepsEndpoint handles GET /api/metrics/steps.
type MetricsStepsEndpoint struct{}

func (e *MetricsStepsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/steps", e.handler
}

func (e *MetricsStepsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Per-step LLM statistics
//	@Description	Latency percentiles and token usage per generation step, optionally for one job
//	@Tags			metrics
//	@Produce		json
//	@Param			job_id	query		string	false	"Job ID"
//	@Success		200		{object}	MetricsStepsResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/metrics/steps [get]
func (e *MetricsStepsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.LLMCallStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "LLM call store not available")
		return
	}

	jobID := r.URL.Query().Get("job_id")
	steps, err := metrics.NewQuery(store).StepDetailedStats(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MetricsStepsResponse{JobID: jobID, Steps: steps})
}

func (e *MetricsStepsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var jobID string

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Get latency and token stats per generation step",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/metrics/steps"
			if jobID != "" {
				path += "?" + url.Values{"job_id": {jobID}}.Encode()
			}

			client := api.NewClient(getServerURL())
			var resp MetricsStepsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			if len(resp.Steps) == 0 {
				fmt.Println("No recorded calls")
				return nil
			}
			fmt.Printf("%-26s %6s %6s %9s %9s %9s %10s\n", "STEP", "CALLS", "ERRORS", "P50", "P95", "MAX", "TOKENS")
			for _, step := range sortedKeys(resp.Steps) {
				s := resp.Steps[step]
				fmt.Printf("%-26s %6d %6d %7.0fms %7.0fms %7.0fms %10d\n",
					step, s.Count, s.ErrorCount, s.LatencyP50, s.LatencyP95, s.LatencyMax, s.TotalTokens)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job-id", "", "Only include calls of this job")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
