package temporal

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/database"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

type WorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env     *testsuite.TestWorkflowEnvironment
	llm     *providers.MockClient
	tracker *jobs.Tracker
	pub     *jobs.MemoryPublisher
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	db, err := database.OpenMemory(jobs.Models()...)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = database.Close(db) })

	s.pub = &jobs.MemoryPublisher{}
	s.tracker = jobs.NewTracker(jobs.NewStore(db, nil), s.pub, nil)

	s.llm = providers.NewMockClient()
	s.llm.Responder = func(req *providers.ChatRequest) (string, error) {
		_, user := req.SystemAndUser()
		if strings.Contains(user, "promotional posts") {
			return `{"twitter":"t","linkedin":"l","instagram":"i","tiktok":"k","youtube":"y","facebook":"f"}`, nil
		}
		return "", errors.New("backend unavailable")
	}

	reg := prompts.NewRegistry(nil)
	assets.RegisterPrompts(reg)
	gen, err := assets.New(assets.Config{Client: s.llm, Prompts: reg})
	s.Require().NoError(err)

	s.env = s.NewTestWorkflowEnvironment()
	Register(s.env, &Activities{Tracker: s.tracker, Generator: gen})
}

func (s *WorkflowSuite) AfterTest(_, _ string) {
	s.env.AssertExpectations(s.T())
}

func (s *WorkflowSuite) createJob() *jobs.Job {
	job, err := s.tracker.Create(context.Background(), "proj", &transcript.Transcript{
		Text: "Welcome to the show.",
		Chapters: []transcript.Chapter{
			{Start: 0, Headline: "Intro", Summary: "Hosts introduce the episode."},
			{Start: 3725000, Headline: "Wrap up", Summary: "Closing thoughts."},
		},
	})
	s.Require().NoError(err)
	return job
}

func (s *WorkflowSuite) input(jobID string) Input {
	return Input{JobID: jobID, ActivityTimeout: time.Minute, MaxAttempts: 1}
}

func (s *WorkflowSuite) Test_GenerateAssets_StoresBundle() {
	job := s.createJob()

	s.env.ExecuteWorkflow(GenerateAssets, s.input(job.ID))
	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().NoError(s.env.GetWorkflowError())

	got, err := s.tracker.Store().Get(context.Background(), job.ID)
	s.Require().NoError(err)
	s.Equal(jobs.StateCompleted, got.State)
	s.Equal(jobs.StepCompleted, got.Status.ContentGeneration)
	for _, kind := range assets.Kinds {
		s.Equal(jobs.StepCompleted, got.Status.Get(jobs.AssetStep(kind)), kind)
	}
	s.NotEmpty(got.WorkflowID)

	s.Require().NotNil(got.Result)
	s.Equal("t", got.Result.Social.Twitter)
	s.False(got.Result.UsedFallback(assets.KindSocial))
	s.True(got.Result.UsedFallback(assets.KindSummary))
	s.Equal("Summary generation failed", got.Result.Summary.TLDR)

	s.Require().Len(got.Result.YouTubeTimestamps, 2)
	s.Equal("1:02:05", got.Result.YouTubeTimestamps[1].Timestamp)
	s.Equal("Wrap up", got.Result.YouTubeTimestamps[1].Description)
	s.Require().Len(got.Result.KeyMoments, 2)
	s.Equal("01:02:05", got.Result.KeyMoments[1].Time)
}

func (s *WorkflowSuite) Test_GenerateAssets_RetriesBackendFailures() {
	var socialCalls, summaryCalls atomic.Int32
	s.llm.Responder = func(req *providers.ChatRequest) (string, error) {
		_, user := req.SystemAndUser()
		switch {
		case strings.Contains(user, "promotional posts"):
			if socialCalls.Add(1) == 1 {
				return "", errors.New("status 503: overloaded")
			}
			return `{"twitter":"t","linkedin":"l","instagram":"i","tiktok":"k","youtube":"y","facebook":"f"}`, nil
		case strings.Contains(user, "structured JSON summary"):
			summaryCalls.Add(1)
		}
		return "", errors.New("backend unavailable")
	}
	job := s.createJob()
	in := s.input(job.ID)
	in.MaxAttempts = 3

	s.env.ExecuteWorkflow(GenerateAssets, in)
	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().NoError(s.env.GetWorkflowError())

	got, err := s.tracker.Store().Get(context.Background(), job.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Result)

	// One failed attempt, then the real posts.
	s.Equal(int32(2), socialCalls.Load())
	s.Equal("t", got.Result.Social.Twitter)
	s.False(got.Result.UsedFallback(assets.KindSocial))

	// Every attempt failed, so the last one kept the fallback.
	s.Equal(int32(3), summaryCalls.Load())
	s.True(got.Result.UsedFallback(assets.KindSummary))
	s.Equal(jobs.StateCompleted, got.State)
}

func (s *WorkflowSuite) Test_GenerateAssets_StoreFailureFailsJob() {
	job := s.createJob()
	s.env.OnActivity(ActivityStoreResult, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	s.env.ExecuteWorkflow(GenerateAssets, s.input(job.ID))
	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().Error(s.env.GetWorkflowError())

	got, err := s.tracker.Store().Get(context.Background(), job.ID)
	s.Require().NoError(err)
	s.Equal(jobs.StateFailed, got.State)
	s.Contains(got.Error, "disk full")
	s.Equal(jobs.StepFailed, got.Status.ContentGeneration)
	s.Equal(jobs.StepCompleted, got.Status.Summary)
}

func (s *WorkflowSuite) Test_GenerateAssets_MissingJob() {
	s.env.ExecuteWorkflow(GenerateAssets, s.input("missing"))
	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().Error(s.env.GetWorkflowError())
	s.Equal(int64(0), s.llm.RequestCount())
}

func (s *WorkflowSuite) Test_GenerateAssets_RequiresJobID() {
	s.env.ExecuteWorkflow(GenerateAssets, Input{})
	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().Error(s.env.GetWorkflowError())
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{TaskQueue: " custom "}.WithDefaults()
	require.Equal(t, DefaultAddress, cfg.Address)
	require.Equal(t, DefaultNamespace, cfg.Namespace)
	require.Equal(t, "custom", cfg.TaskQueue)
	require.Equal(t, DefaultActivityTimeout, cfg.ActivityTimeout)
	require.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
}

func TestLastAttempt(t *testing.T) {
	require.True(t, lastAttempt(1, 1))
	require.False(t, lastAttempt(1, 3))
	require.True(t, lastAttempt(3, 3))
	require.False(t, lastAttempt(1, 0))
	require.True(t, lastAttempt(int32(DefaultMaxAttempts), 0))
}

func TestWorkflowID(t *testing.T) {
	require.Equal(t, "generate-assets-abc", WorkflowID("abc"))
}

func TestClampBackoff(t *testing.T) {
	require.Equal(t, 250*time.Millisecond, clampBackoff(250*time.Millisecond, 5*time.Second, 1))
	require.Equal(t, time.Second, clampBackoff(250*time.Millisecond, 5*time.Second, 3))
	require.Equal(t, 5*time.Second, clampBackoff(250*time.Millisecond, 5*time.Second, 10))
}
