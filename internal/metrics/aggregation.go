package metrics

import (
	"context"
	"sort"

	"github.com/nagdatt/ai-podcast-saas/internal/llmcall"
)

// Summary provides totals and averages for a set of calls.
type Summary struct {
	Count        int     `json:"count"`
	SuccessCount int     `json:"success_count"`
	ErrorCount   int     `json:"error_count"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	TotalTimeMs  int64   `json:"total_time_ms"`
	AvgCostUSD   float64 `json:"avg_cost_usd"`
	AvgTokens    float64 `json:"avg_tokens"`
	AvgTimeMs    float64 `json:"avg_time_ms"`
}

// GetSummary returns a summary of calls matching the filter.
func (q *Query) GetSummary(ctx context.Context, f Filter) (*Summary, error) {
	calls, err := q.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return summarize(calls), nil
}

func summarize(calls []llmcall.Call) *Summary {
	s := &Summary{Count: len(calls)}
	for _, c := range calls {
		if c.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		s.TotalCostUSD += c.CostUSD
		s.InputTokens += c.InputTokens
		s.OutputTokens += c.OutputTokens
		s.TotalTimeMs += int64(c.LatencyMs)
	}
	s.TotalTokens = s.InputTokens + s.OutputTokens

	if s.Count > 0 {
		n := float64(s.Count)
		s.AvgCostUSD = s.TotalCostUSD / n
		s.AvgTokens = float64(s.TotalTokens) / n
		s.AvgTimeMs = float64(s.TotalTimeMs) / n
	}
	return s
}

// DetailedStats adds latency percentiles and per-call token averages to the
// counts of a Summary. Latencies are in milliseconds.
type DetailedStats struct {
	Count        int     `json:"count"`
	SuccessCount int     `json:"success_count"`
	ErrorCount   int     `json:"error_count"`
	TotalCostUSD float64 `json:"total_cost_usd"`

	LatencyP50 float64 `json:"latency_p50_ms"`
	LatencyP95 float64 `json:"latency_p95_ms"`
	LatencyP99 float64 `json:"latency_p99_ms"`
	LatencyAvg float64 `json:"latency_avg_ms"`
	LatencyMin float64 `json:"latency_min_ms"`
	LatencyMax float64 `json:"latency_max_ms"`
	QueueAvg   float64 `json:"queue_avg_ms"`

	TotalInputTokens  int     `json:"total_input_tokens"`
	TotalOutputTokens int     `json:"total_output_tokens"`
	TotalTokens       int     `json:"total_tokens"`
	AvgInputTokens    float64 `json:"avg_input_tokens"`
	AvgOutputTokens   float64 `json:"avg_output_tokens"`
	AvgTotalTokens    float64 `json:"avg_total_tokens"`
}

// GetDetailedStats returns latency percentiles and token breakdowns for
// calls matching the filter.
func (q *Query) GetDetailedStats(ctx context.Context, f Filter) (*DetailedStats, error) {
	calls, err := q.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return detail(calls), nil
}

// StepDetailedStats returns detailed stats grouped by generation step,
// optionally for one job. Calls without a step are skipped.
func (q *Query) StepDetailedStats(ctx context.Context, jobID string) (map[string]*DetailedStats, error) {
	calls, err := q.List(ctx, Filter{JobID: jobID})
	if err != nil {
		return nil, err
	}

	byStep := make(map[string][]llmcall.Call)
	for _, c := range calls {
		if c.Step != "" {
			byStep[c.Step] = append(byStep[c.Step], c)
		}
	}

	result := make(map[string]*DetailedStats, len(byStep))
	for step, stepCalls := range byStep {
		result[step] = detail(stepCalls)
	}
	return result, nil
}

func detail(calls []llmcall.Call) *DetailedStats {
	stats := &DetailedStats{Count: len(calls)}
	if len(calls) == 0 {
		return stats
	}

	var latencies []float64
	var queued float64
	for _, c := range calls {
		if c.Success {
			stats.SuccessCount++
		} else {
			stats.ErrorCount++
		}
		stats.TotalCostUSD += c.CostUSD
		stats.TotalInputTokens += c.InputTokens
		stats.TotalOutputTokens += c.OutputTokens
		queued += float64(c.QueueMs)
		if c.LatencyMs > 0 {
			latencies = append(latencies, float64(c.LatencyMs))
		}
	}
	stats.TotalTokens = stats.TotalInputTokens + stats.TotalOutputTokens

	count := float64(stats.Count)
	stats.AvgInputTokens = float64(stats.TotalInputTokens) / count
	stats.AvgOutputTokens = float64(stats.TotalOutputTokens) / count
	stats.AvgTotalTokens = float64(stats.TotalTokens) / count
	stats.QueueAvg = queued / count

	if len(latencies) > 0 {
		sort.Float64s(latencies)
		stats.LatencyMin = latencies[0]
		stats.LatencyMax = latencies[len(latencies)-1]

		var sum float64
		for _, l := range latencies {
			sum += l
		}
		stats.LatencyAvg = sum / float64(len(latencies))

		stats.LatencyP50 = percentile(latencies, 50)
		stats.LatencyP95 = percentile(latencies, 95)
		stats.LatencyP99 = percentile(latencies, 99)
	}
	return stats
}

// percentile calculates the p-th percentile from a sorted slice of values,
// interpolating between neighbours.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := (p / 100.0) * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
