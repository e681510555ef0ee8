// Package core assembles the services shared by the HTTP server, the
// Temporal worker and the one-shot generate command: the database, the
// provider registry and its worker pool, prompts, llm call recording and the
// job tracker.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/config"
	"github.com/nagdatt/ai-podcast-saas/internal/database"
	"github.com/nagdatt/ai-podcast-saas/internal/home"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/llmcall"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
	"github.com/nagdatt/ai-podcast-saas/internal/workflow"
)

// Options configures New.
type Options struct {
	Config *config.Config
	Home   *home.Dir
	Logger *slog.Logger

	// Registry replaces the providers built from Config.
	Registry *providers.Registry
	// DB replaces the database opened from Config. The caller keeps
	// ownership and Close leaves it open.
	DB *gorm.DB
}

// Core holds the long-lived services.
type Core struct {
	DB        *gorm.DB
	Registry  *providers.Registry
	Pool      *jobs.ProviderPool
	Prompts   *prompts.Registry
	LLMCalls  *llmcall.Store
	Recorder  *llmcall.Recorder
	Publisher jobs.Publisher
	Tracker   *jobs.Tracker
	Home      *home.Dir
	Logger    *slog.Logger

	mu           sync.RWMutex
	cfg          *config.Config
	ownsDB       bool
	ownsRegistry bool
}

// New opens the store and builds every shared service.
func New(ctx context.Context, opts Options) (*Core, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg := opts.Config
	c := &Core{Home: opts.Home, Logger: opts.Logger, cfg: cfg}

	models := append(jobs.Models(), llmcall.Models()...)
	if opts.DB != nil {
		if err := opts.DB.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		c.DB = opts.DB
	} else {
		defaultPath := ""
		if opts.Home != nil {
			defaultPath = opts.Home.DatabasePath()
		}
		db, err := database.Open(cfg.DatabaseConfig(defaultPath), models...)
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.ownsDB = true
	}

	c.LLMCalls = llmcall.NewStore(c.DB)
	c.Recorder = llmcall.NewRecorder(c.LLMCalls, llmcall.RecorderConfig{Logger: opts.Logger})
	c.Recorder.Start()

	c.Prompts = prompts.NewRegistry(opts.Logger)
	assets.RegisterPrompts(c.Prompts)

	c.Registry = opts.Registry
	if c.Registry == nil {
		c.Registry = providers.NewRegistry()
		c.Registry.SetLogger(opts.Logger)
		c.Registry.Reload(ctx, cfg.ToProviderRegistryConfig())
		c.ownsRegistry = true
	}

	// Every generator shares the pool, so provider_workers bounds backend
	// calls across jobs.
	pool, err := jobs.NewProviderPool(jobs.ProviderPoolConfig{
		Client:  c.Registry.Client(c.ProviderName),
		Workers: cfg.Defaults.ProviderWorkers,
		Logger:  opts.Logger,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Pool = pool
	c.Pool.Start(context.Background())

	c.Publisher = jobs.NopPublisher{}
	if cfg.Redis.Enabled {
		pub, err := jobs.NewRedisPublisher(ctx, cfg.RedisConfig(), opts.Logger)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Publisher = pub
	}

	c.Tracker = jobs.NewTracker(jobs.NewStore(c.DB, opts.Logger), c.Publisher, opts.Logger)
	return c, nil
}

// Config returns the configuration currently in effect.
func (c *Core) Config() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Reload applies a changed configuration to the provider registry and the
// default provider selection.
func (c *Core) Reload(ctx context.Context, cfg *config.Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	c.Registry.Reload(ctx, cfg.ToProviderRegistryConfig())
	c.Logger.Info("provider registry reloaded from config", "default", cfg.Defaults.LLMProvider)
}

// ProviderName is the configured default LLM provider.
func (c *Core) ProviderName() string {
	return c.Config().Defaults.LLMProvider
}

// LocalStepper retries steps in-process as configured under pipeline.
func (c *Core) LocalStepper() workflow.Stepper {
	p := c.Config().Pipeline
	return workflow.NewLocalStepper(p.StepAttempts, p.StepDelay, c.Logger)
}

// Generator builds an asset generator on the shared provider pool. The
// provider is looked up per call, so config reloads apply to running
// generators.
func (c *Core) Generator(stepper workflow.Stepper) (*assets.Generator, error) {
	cfg := c.Config()
	return assets.New(assets.Config{
		Client:         c.Pool,
		Stepper:        stepper,
		Recorder:       c.Recorder,
		Prompts:        c.Prompts,
		Logger:         c.Logger,
		Temperature:    cfg.Defaults.Temperature,
		RawLogLimit:    cfg.Pipeline.RawLogLimit,
		MaxConcurrency: cfg.Defaults.MaxConcurrency,
	})
}

// Runner builds a local job runner around gen.
func (c *Core) Runner(gen *assets.Generator) (*jobs.Runner, error) {
	return jobs.NewRunner(jobs.RunnerConfig{
		Tracker:   c.Tracker,
		Generator: gen,
		Logger:    c.Logger,
		MaxJobs:   c.Config().Defaults.MaxJobs,
	})
}

// Services exposes the core to request handlers.
func (c *Core) Services(gen *assets.Generator, starter jobs.Starter, mode string) *svcctx.Services {
	deps := make(map[string]svcctx.Pinger)
	if p, ok := c.Publisher.(*jobs.RedisPublisher); ok {
		deps["redis"] = p
	}
	if p, ok := starter.(svcctx.Pinger); ok {
		deps[mode] = p
	}
	return &svcctx.Services{
		DB:           c.DB,
		Tracker:      c.Tracker,
		Starter:      starter,
		Generator:    gen,
		Registry:     c.Registry,
		Pool:         c.Pool,
		Prompts:      c.Prompts,
		LLMCallStore: c.LLMCalls,
		Logger:       c.Logger,
		Home:         c.Home,
		Mode:         mode,
		Dependencies: deps,
	}
}

// Close flushes pending llm call records and releases connections.
func (c *Core) Close() error {
	var errs []error
	if c.Pool != nil {
		c.Pool.Stop()
	}
	c.Recorder.Stop()
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.ownsRegistry {
		c.Registry.Close()
	}
	if c.ownsDB {
		errs = append(errs, database.Close(c.DB))
	}
	return errors.Join(errs...)
}
