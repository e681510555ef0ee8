package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/config"
	"github.com/nagdatt/ai-podcast-saas/internal/home"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/testutil"
	"github.com/nagdatt/ai-podcast-saas/internal/workflow"
)

func newCore(t *testing.T) (*Core, *config.Config) {
	t.Helper()
	h, err := home.New(filepath.Join(t.TempDir(), ".podsaas"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	registry, _ := testutil.MockRegistry("gemini")
	c, err := New(context.Background(), Options{Config: cfg, Home: h, Registry: registry})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, cfg
}

func TestNew_OpensDatabaseInHome(t *testing.T) {
	c, _ := newCore(t)

	assert.FileExists(t, c.Home.DatabasePath())
	assert.Len(t, c.Prompts.All(), 12)
	assert.IsType(t, jobs.NopPublisher{}, c.Publisher)
}

func TestCore_RunsJobLocally(t *testing.T) {
	c, _ := newCore(t)
	ctx := context.Background()

	gen, err := c.Generator(workflow.DirectStepper{})
	require.NoError(t, err)
	runner, err := c.Runner(gen)
	require.NoError(t, err)
	defer runner.Stop()

	job, err := c.Tracker.Create(ctx, "proj", testutil.Transcript())
	require.NoError(t, err)
	require.NoError(t, runner.Run(ctx, job.ID))

	got, err := c.Tracker.Store().Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StateCompleted, got.State)
	assert.Empty(t, got.Result.Fallbacks)

	// every backend call went through the shared pool
	pool := c.Pool.Status()
	assert.Positive(t, pool.Completed)
	assert.Zero(t, pool.Failed)
	assert.Equal(t, config.DefaultConfig().Defaults.ProviderWorkers, pool.Workers)
}

func TestCore_ReloadSwitchesProvider(t *testing.T) {
	c, cfg := newCore(t)
	ctx := context.Background()

	gen, err := c.Generator(workflow.DirectStepper{})
	require.NoError(t, err)

	// provider "other" is not registered: every asset falls back
	changed := *cfg
	changed.Defaults.LLMProvider = "other"
	changed.LLMProviders = map[string]config.LLMProviderCfg{}
	c.cfg = &changed
	assert.Equal(t, "other", c.ProviderName())

	_, fellBack, err := gen.Generate(ctx, assets.KindSocial, testutil.Transcript())
	require.NoError(t, err)
	assert.True(t, fellBack)

	c.cfg = cfg
	_, fellBack, err = gen.Generate(ctx, assets.KindSocial, testutil.Transcript())
	require.NoError(t, err)
	assert.False(t, fellBack)
}

func TestCore_Services(t *testing.T) {
	c, _ := newCore(t)

	gen, err := c.Generator(nil)
	require.NoError(t, err)
	runner, err := c.Runner(gen)
	require.NoError(t, err)
	defer runner.Stop()

	s := c.Services(gen, runner, "local")
	assert.Equal(t, "local", s.Mode)
	assert.Same(t, c.Tracker, s.Tracker)
	assert.Same(t, c.Pool, s.Pool)
	assert.Empty(t, s.Dependencies)
}
