package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagdatt/ai-podcast-saas/internal/database"
	"github.com/nagdatt/ai-podcast-saas/internal/llmcall"
)

func newTestQuery(t *testing.T) *Query {
	t.Helper()
	db, err := database.OpenMemory(llmcall.Models()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := llmcall.NewStore(db)
	base := time.Now().UTC().Add(-time.Hour)
	calls := []*llmcall.Call{
		{ID: "a", Timestamp: base, JobID: "j1", Step: "generate-summary", Provider: "gemini", Model: "flash",
			LatencyMs: 100, QueueMs: 10, InputTokens: 1000, OutputTokens: 200, CostUSD: 0.01, Success: true},
		{ID: "b", Timestamp: base.Add(time.Minute), JobID: "j1", Step: "generate-summary", Provider: "gemini", Model: "flash",
			LatencyMs: 300, QueueMs: 30, InputTokens: 1000, OutputTokens: 0, Success: false},
		{ID: "c", Timestamp: base.Add(2 * time.Minute), JobID: "j1", Step: "generate-titles", Provider: "openai", Model: "mini",
			LatencyMs: 200, InputTokens: 500, OutputTokens: 100, CostUSD: 0.02, Success: true},
		{ID: "d", Timestamp: base.Add(3 * time.Minute), JobID: "j2", Provider: "openai", Model: "mini",
			LatencyMs: 50, InputTokens: 10, OutputTokens: 5, Success: true},
	}
	require.NoError(t, store.Create(context.Background(), calls))
	return NewQuery(store)
}

func TestGetSummary(t *testing.T) {
	q := newTestQuery(t)
	ctx := context.Background()

	s, err := q.GetSummary(ctx, Filter{JobID: "j1"})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2, s.SuccessCount)
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 2500, s.InputTokens)
	assert.Equal(t, 300, s.OutputTokens)
	assert.Equal(t, 2800, s.TotalTokens)
	assert.Equal(t, int64(600), s.TotalTimeMs)
	assert.InDelta(t, 200.0, s.AvgTimeMs, 1e-9)
	assert.InDelta(t, 0.03, s.TotalCostUSD, 1e-9)

	failed := false
	s, err = q.GetSummary(ctx, Filter{Success: &failed})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)

	empty, err := q.GetSummary(ctx, Filter{JobID: "missing"})
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.AvgTokens)
}

func TestGetSummary_TimeWindow(t *testing.T) {
	q := newTestQuery(t)

	s, err := q.GetSummary(context.Background(), Filter{After: time.Now().UTC().Add(-time.Hour + 90*time.Second)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
}

func TestStepDetailedStats(t *testing.T) {
	q := newTestQuery(t)

	steps, err := q.StepDetailedStats(context.Background(), "j1")
	require.NoError(t, err)
	require.Len(t, steps, 2)

	summary := steps["generate-summary"]
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 1, summary.ErrorCount)
	assert.Equal(t, 100.0, summary.LatencyMin)
	assert.Equal(t, 300.0, summary.LatencyMax)
	assert.Equal(t, 200.0, summary.LatencyP50)
	assert.InDelta(t, 290.0, summary.LatencyP95, 1e-9)
	assert.Equal(t, 20.0, summary.QueueAvg)
	assert.Equal(t, 2200, summary.TotalTokens)
	assert.Equal(t, 1100.0, summary.AvgTotalTokens)

	assert.Equal(t, 600, steps["generate-titles"].TotalTokens)

	// calls without a step are left out
	all, err := q.StepDetailedStats(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBreakdowns(t *testing.T) {
	q := newTestQuery(t)
	ctx := context.Background()

	byStep, err := q.TokensByStep(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"generate-summary": 2200, "generate-titles": 600}, byStep)

	byProvider, err := q.TokensByProvider(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"gemini": 2200, "openai": 615}, byProvider)

	byModel, err := q.TokensByModel(ctx, Filter{JobID: "j2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"mini": 15}, byModel)

	cost, err := q.CostByProvider(ctx, Filter{})
	require.NoError(t, err)
	assert.InDelta(t, 0.01, cost["gemini"], 1e-9)
	assert.InDelta(t, 0.02, cost["openai"], 1e-9)
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 7.0, percentile([]float64{7}, 99))
	assert.Equal(t, 2.5, percentile([]float64{1, 2, 3, 4}, 50))
	assert.Equal(t, 4.0, percentile([]float64{1, 2, 3, 4}, 100))
}
