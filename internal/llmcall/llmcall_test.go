package llmcall

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagdatt/ai-podcast-saas/internal/database"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenMemory(&Call{})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return NewStore(db)
}

func TestFromChatResult(t *testing.T) {
	temp := 0.3
	result := &providers.ChatResult{
		Content:          `{"a":1}`,
		PromptTokens:     100,
		CompletionTokens: 20,
		ExecutionTime:    1500 * time.Millisecond,
		QueueTime:        250 * time.Millisecond,
		CostUSD:          0.002,
		Provider:         "gemini",
		ModelUsed:        "gemini-2.5-flash",
		Success:          false,
		ErrorMessage:     "boom",
	}

	call := FromChatResult(result, RecordOptions{
		JobID:       "job-1",
		Step:        "generate-titles",
		PromptKey:   "assets.titles.user",
		PromptHash:  "abc",
		Temperature: &temp,
	})
	require.NotNil(t, call)
	assert.NotEmpty(t, call.ID)
	assert.Equal(t, 1500, call.LatencyMs)
	assert.Equal(t, 250, call.QueueMs)
	assert.InDelta(t, 0.002, call.CostUSD, 1e-9)
	assert.Equal(t, "job-1", call.JobID)
	assert.Equal(t, "generate-titles", call.Step)
	assert.Equal(t, "gemini-2.5-flash", call.Model)
	assert.Equal(t, 100, call.InputTokens)
	assert.Equal(t, "boom", call.Error)
	assert.Equal(t, &temp, call.Temperature)

	assert.Nil(t, FromChatResult(nil, RecordOptions{}))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	calls := []*Call{
		{ID: "c1", Timestamp: base, JobID: "j1", PromptKey: "assets.summary.user", Provider: "gemini", Success: true},
		{ID: "c2", Timestamp: base.Add(time.Minute), JobID: "j1", PromptKey: "assets.titles.user", Provider: "gemini", Success: false},
		{ID: "c3", Timestamp: base.Add(2 * time.Minute), JobID: "j2", PromptKey: "assets.summary.user", Provider: "openai", Success: true},
	}
	require.NoError(t, s.Create(ctx, calls))

	t.Run("get", func(t *testing.T) {
		c, err := s.Get(ctx, "c2")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "assets.titles.user", c.PromptKey)

		missing, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("list newest first", func(t *testing.T) {
		got, err := s.List(ctx, QueryFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "c3", got[0].ID)
		assert.Equal(t, "c1", got[2].ID)
	})

	t.Run("list filters", func(t *testing.T) {
		ok := true
		got, err := s.List(ctx, QueryFilter{JobID: "j1", Success: &ok})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c1", got[0].ID)

		got, err = s.List(ctx, QueryFilter{Provider: "gemini", Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c1", got[0].ID)
	})

	t.Run("count by prompt key", func(t *testing.T) {
		counts, err := s.CountByPromptKey(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"assets.summary.user": 2, "assets.titles.user": 1}, counts)

		counts, err = s.CountByPromptKey(ctx, "j2")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"assets.summary.user": 1}, counts)
	})
}

func TestRecorder_FlushesOnStop(t *testing.T) {
	s := newStore(t)
	r := NewRecorder(s, RecorderConfig{FlushInterval: time.Hour})
	r.Start()

	for i := 0; i < 3; i++ {
		r.Record(&providers.ChatResult{Provider: "mock", Success: true}, RecordOptions{JobID: "j", PromptKey: "k"})
	}
	r.Stop()

	got, err := s.List(context.Background(), QueryFilter{JobID: "j"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Recording after stop is a no-op.
	r.Record(&providers.ChatResult{Provider: "mock"}, RecordOptions{JobID: "j"})
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	r.Start()
	r.Record(&providers.ChatResult{}, RecordOptions{})
	r.Stop()

	disabled := NewRecorder(nil, RecorderConfig{})
	disabled.Start()
	disabled.Record(&providers.ChatResult{}, RecordOptions{})
	disabled.Stop()
}
