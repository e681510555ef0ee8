package metrics

import (
	"context"

	"github.com/nagdatt/ai-podcast-saas/internal/llmcall"
)

// TokensByStep returns total tokens per generation step for a job.
func (q *Query) TokensByStep(ctx context.Context, jobID string) (map[string]int, error) {
	return q.tokensBy(ctx, Filter{JobID: jobID}, func(c llmcall.Call) string { return c.Step })
}

// TokensByProvider returns total tokens per provider.
func (q *Query) TokensByProvider(ctx context.Context, f Filter) (map[string]int, error) {
	return q.tokensBy(ctx, f, func(c llmcall.Call) string { return c.Provider })
}

// TokensByModel returns total tokens per model.
func (q *Query) TokensByModel(ctx context.Context, f Filter) (map[string]int, error) {
	return q.tokensBy(ctx, f, func(c llmcall.Call) string { return c.Model })
}

// CostByProvider returns cost breakdown by provider.
func (q *Query) CostByProvider(ctx context.Context, f Filter) (map[string]float64, error) {
	calls, err := q.List(ctx, f)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]float64)
	for _, c := range calls {
		breakdown[c.Provider] += c.CostUSD
	}
	return breakdown, nil
}

func (q *Query) tokensBy(ctx context.Context, f Filter, key func(llmcall.Call) string) (map[string]int, error) {
	calls, err := q.List(ctx, f)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]int)
	for _, c := range calls {
		breakdown[key(c)] += c.InputTokens + c.OutputTokens
	}
	return breakdown, nil
}
