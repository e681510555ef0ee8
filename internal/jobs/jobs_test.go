package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/database"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

func sampleTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		Text: "Welcome to the show. Today we talk about automation.",
		Chapters: []transcript.Chapter{
			{Start: 0, End: 60000, Headline: "Intro", Summary: "Hosts introduce the episode."},
			{Start: 61500, End: 180000, Headline: "Automation basics", Summary: "What to automate first."},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenMemory(Models()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewStore(db, nil)
}

func newTestRunner(t *testing.T, client providers.LLMClient) (*Runner, *Tracker, *MemoryPublisher) {
	t.Helper()
	reg := prompts.NewRegistry(nil)
	assets.RegisterPrompts(reg)
	gen, err := assets.New(assets.Config{Client: client, Prompts: reg})
	require.NoError(t, err)

	pub := &MemoryPublisher{}
	tracker := NewTracker(newTestStore(t), pub, nil)
	r, err := NewRunner(RunnerConfig{Tracker: tracker, Generator: gen})
	require.NoError(t, err)
	t.Cleanup(r.Stop)
	return r, tracker, pub
}

func TestNewJobStatus(t *testing.T) {
	s := NewJobStatus()
	assert.Equal(t, StepCompleted, s.Transcription)
	assert.Equal(t, StepPending, s.ContentGeneration)
	for _, kind := range assets.Kinds {
		assert.Equal(t, StepPending, s.Get(AssetStep(kind)), kind)
	}
}

func TestJobStatus_SetUnknownStep(t *testing.T) {
	var s JobStatus
	assert.False(t, s.Set("audio", StepRunning))
	assert.True(t, s.Set(StepContentGeneration, StepRunning))
	assert.Equal(t, StepRunning, s.ContentGeneration)
	assert.True(t, ValidStep("youtubeTimestamps"))
	assert.False(t, ValidStep("youtube"))
}

func TestJobStatus_FailUnfinished(t *testing.T) {
	s := NewJobStatus()
	s.Summary = StepCompleted
	s.Titles = StepRunning
	s.FailUnfinished()

	assert.Equal(t, StepCompleted, s.Transcription)
	assert.Equal(t, StepCompleted, s.Summary)
	assert.Equal(t, StepFailed, s.Titles)
	assert.Equal(t, StepFailed, s.Hashtags)
	assert.Equal(t, StepFailed, s.ContentGeneration)
}

func TestStore_CreateGetList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := NewJob("proj_1", sampleTranscript())
	require.NoError(t, store.Create(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := NewJob("proj_2", sampleTranscript())
	require.NoError(t, store.Create(ctx, second))

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "proj_1", got.ProjectID)
	assert.Equal(t, StateQueued, got.State)
	require.NotNil(t, got.Transcript)
	assert.Len(t, got.Transcript.Chapters, 2)
	assert.Equal(t, StepCompleted, got.Status.Transcription)

	all, err := store.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	byProject, err := store.List(ctx, ListFilter{ProjectID: "proj_1"})
	require.NoError(t, err)
	require.Len(t, byProject, 1)
	assert.Equal(t, first.ID, byProject[0].ID)

	_, err = store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_UpdateStep(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	job := NewJob("proj", sampleTranscript())
	require.NoError(t, store.Create(ctx, job))

	updated, err := store.UpdateStep(ctx, job.ID, AssetStep(assets.KindTitles), StepRunning)
	require.NoError(t, err)
	assert.Equal(t, StepRunning, updated.Status.Titles)

	_, err = store.UpdateStep(ctx, job.ID, "audio", StepRunning)
	assert.Error(t, err)

	_, err = store.UpdateStep(ctx, "missing", StepContentGeneration, StepRunning)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_ConcurrentStepUpdates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	job := NewJob("proj", sampleTranscript())
	require.NoError(t, store.Create(ctx, job))

	done := make(chan error, len(assets.Kinds))
	for _, kind := range assets.Kinds {
		go func() {
			_, err := store.UpdateStep(ctx, job.ID, AssetStep(kind), StepCompleted)
			done <- err
		}()
	}
	for range assets.Kinds {
		require.NoError(t, <-done)
	}

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	for _, kind := range assets.Kinds {
		assert.Equal(t, StepCompleted, got.Status.Get(AssetStep(kind)), kind)
	}
}

func TestTracker_CreateRejectsEmptyTranscript(t *testing.T) {
	tracker := NewTracker(newTestStore(t), nil, nil)
	_, err := tracker.Create(context.Background(), "proj", &transcript.Transcript{})
	assert.Error(t, err)
}

func TestTracker_PublishesTransitions(t *testing.T) {
	ctx := context.Background()
	pub := &MemoryPublisher{}
	tracker := NewTracker(newTestStore(t), pub, nil)

	job, err := tracker.Create(ctx, "proj", sampleTranscript())
	require.NoError(t, err)
	require.NoError(t, tracker.Start(ctx, job.ID, "wf-1"))
	tracker.Observer(job.ID)(ctx, assets.KindSummary, assets.PhaseStarted)

	updates := pub.Updates()
	require.Len(t, updates, 3)
	assert.Equal(t, StepTranscription, updates[0].Step)
	assert.Equal(t, StateRunning, updates[1].State)
	assert.Equal(t, StepRunning, updates[1].Status.ContentGeneration)
	assert.Equal(t, Step("summary"), updates[2].Step)
	assert.Equal(t, StepRunning, updates[2].Status.Summary)

	got, err := tracker.Store().Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "wf-1", got.WorkflowID)
}

func TestRunner_RunCompletesWithFallbacks(t *testing.T) {
	ctx := context.Background()
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	r, tracker, pub := newTestRunner(t, mock)

	job, err := tracker.Create(ctx, "proj", sampleTranscript())
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx, job.ID))

	got, err := tracker.Store().Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, got.State)
	assert.Empty(t, got.Error)
	assert.Equal(t, StepCompleted, got.Status.ContentGeneration)
	for _, kind := range assets.Kinds {
		assert.Equal(t, StepCompleted, got.Status.Get(AssetStep(kind)), kind)
	}
	require.NotNil(t, got.Result)
	assert.Len(t, got.Result.Fallbacks, len(assets.Kinds))
	assert.Len(t, got.Result.KeyMoments, 2)
	assert.Equal(t, "Intro", got.Result.KeyMoments[0].Text)

	updates := pub.Updates()
	last := updates[len(updates)-1]
	assert.Equal(t, StateCompleted, last.State)
}

func TestRunner_RunSkipsFinishedJob(t *testing.T) {
	ctx := context.Background()
	mock := providers.NewMockClient()
	r, tracker, _ := newTestRunner(t, mock)

	job, err := tracker.Create(ctx, "proj", sampleTranscript())
	require.NoError(t, err)
	require.NoError(t, tracker.Complete(ctx, job.ID, &assets.Bundle{}))

	require.NoError(t, r.Run(ctx, job.ID))
	assert.Equal(t, int64(0), mock.RequestCount())
}

func TestRunner_CancelledRunFailsJob(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Latency = 5 * time.Second
	r, tracker, _ := newTestRunner(t, mock)

	job, err := tracker.Create(context.Background(), "proj", sampleTranscript())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = r.Run(ctx, job.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	got, err := tracker.Store().Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, got.State)
	assert.NotEmpty(t, got.Error)
	assert.Equal(t, StepFailed, got.Status.ContentGeneration)
	assert.Equal(t, StepCompleted, got.Status.Transcription)
}

func TestRunner_StartJobRunsInBackground(t *testing.T) {
	ctx := context.Background()
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	r, tracker, _ := newTestRunner(t, mock)

	job, err := tracker.Create(ctx, "proj", sampleTranscript())
	require.NoError(t, err)
	require.NoError(t, r.StartJob(ctx, job))

	require.Eventually(t, func() bool {
		got, err := tracker.Store().Get(ctx, job.ID)
		return err == nil && got.State == StateCompleted
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRunner_StartAfterStop(t *testing.T) {
	r, tracker, _ := newTestRunner(t, providers.NewMockClient())
	job, err := tracker.Create(context.Background(), "proj", sampleTranscript())
	require.NoError(t, err)

	r.Stop()
	assert.Error(t, r.StartJob(context.Background(), job))
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "podsaas:jobs:abc", Channel("", "abc"))
	assert.Equal(t, "custom:abc", Channel("custom", "abc"))
}
