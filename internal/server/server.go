package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"go.temporal.io/sdk/client"
	"gorm.io/gorm"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/config"
	"github.com/nagdatt/ai-podcast-saas/internal/core"
	"github.com/nagdatt/ai-podcast-saas/internal/home"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
	"github.com/nagdatt/ai-podcast-saas/internal/server/endpoints"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
	"github.com/nagdatt/ai-podcast-saas/internal/workflow/temporal"
)

// Execution modes reported by /status.
const (
	ModeLocal    = "local"
	ModeTemporal = "temporal"
)

// Server is the main podsaas HTTP server.
// It owns the job store and, depending on configuration, either runs jobs
// in-process or hands them to Temporal.
type Server struct {
	cfg        Config
	httpServer *http.Server
	core       *core.Core
	runner     *jobs.Runner
	temporal   client.Client
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support.
	// Nil means built-in defaults.
	ConfigManager *config.Manager
	// Home is the podsaas home directory (database location)
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
	// SwaggerSpecPath serves a swagger.json from disk instead of the
	// compiled-in document.
	SwaggerSpecPath string

	// Registry replaces the providers built from config.
	Registry *providers.Registry
	// DB replaces the configured database.
	DB *gorm.DB
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.withServices(mux),
		ReadTimeout: 30 * time.Second,
		// single-asset generation is synchronous and can take a while
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start initializes services and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.init(ctx); err != nil {
		_ = s.shutdown()
		return err
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String(), "mode", s.services.Mode)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// appConfig returns the configuration in effect.
func (s *Server) appConfig() *config.Config {
	if s.cfg.ConfigManager != nil {
		return s.cfg.ConfigManager.Get()
	}
	return config.DefaultConfig()
}

// init builds the services and picks the execution mode.
func (s *Server) init(ctx context.Context) error {
	appCfg := s.appConfig()

	c, err := core.New(ctx, core.Options{
		Config:   appCfg,
		Home:     s.cfg.Home,
		Logger:   s.logger,
		Registry: s.cfg.Registry,
		DB:       s.cfg.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	s.core = c

	if s.cfg.ConfigManager != nil && s.cfg.Registry == nil {
		s.cfg.ConfigManager.OnChange(func(cfg *config.Config) {
			c.Reload(context.Background(), cfg)
		})
	}

	// /api/generate runs synchronously in both modes, retried in-process
	gen, err := c.Generator(c.LocalStepper())
	if err != nil {
		return err
	}

	var starter jobs.Starter
	mode := ModeLocal
	if appCfg.Temporal.Enabled {
		tcfg := appCfg.TemporalConfig()
		tc, err := temporal.Dial(ctx, tcfg, s.logger)
		if err != nil {
			return err
		}
		s.temporal = tc
		starter = temporal.NewStarter(tc, tcfg, s.logger)
		mode = ModeTemporal
	} else {
		runner, err := c.Runner(gen)
		if err != nil {
			return err
		}
		s.runner = runner
		starter = runner
	}

	s.services = c.Services(gen, starter, mode)
	s.logger.Info("services initialized", "mode", mode, "providers", c.Registry.ListLLM(), "default_provider", c.ProviderName())
	return nil
}

// shutdown performs graceful shutdown of the HTTP server and the services.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	// In-flight local jobs are cancelled and marked failed
	if s.runner != nil {
		s.runner.Stop()
	}
	if s.temporal != nil {
		s.temporal.Close()
	}
	if s.core != nil {
		if err := s.core.Close(); err != nil {
			s.logger.Error("service close error", "error", err)
		}
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Services returns the request services, or nil before Start.
func (s *Server) Services() *svcctx.Services {
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until the services are built.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil || s.services.Tracker == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
