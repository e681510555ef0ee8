// Package metrics aggregates recorded llm calls into token, latency and
// cost summaries per job, per generation step, per provider and per model.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/nagdatt/ai-podcast-saas/internal/llmcall"
)

// Query provides aggregate queries over llm call records.
type Query struct {
	store *llmcall.Store
}

// NewQuery creates a new metrics query helper.
func NewQuery(store *llmcall.Store) *Query {
	return &Query{store: store}
}

// Filter specifies query filters. Zero fields match everything.
type Filter struct {
	JobID    string
	Step     string
	Provider string
	Model    string
	After    time.Time
	Before   time.Time
	Success  *bool // nil = any, true = success only, false = errors only
}

func (f Filter) toQueryFilter() llmcall.QueryFilter {
	qf := llmcall.QueryFilter{
		JobID:    f.JobID,
		Step:     f.Step,
		Provider: f.Provider,
		Model:    f.Model,
		Success:  f.Success,
	}
	if !f.After.IsZero() {
		after := f.After
		qf.After = &after
	}
	if !f.Before.IsZero() {
		before := f.Before
		qf.Before = &before
	}
	return qf
}

// List returns every call matching the filter, newest first.
func (q *Query) List(ctx context.Context, f Filter) ([]llmcall.Call, error) {
	calls, err := q.store.List(ctx, f.toQueryFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to list llm calls: %w", err)
	}
	return calls, nil
}
