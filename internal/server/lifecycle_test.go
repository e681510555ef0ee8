package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/nagdatt/ai-podcast-saas/internal/home"
	"github.com/nagdatt/ai-podcast-saas/internal/testutil"
)

func TestServer_FullLifecycle(t *testing.T) {
	cfg := testutil.NewServerConfig(t)

	h, err := home.New(cfg.HomeDir)
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	registry, _ := testutil.MockRegistry("gemini")
	srv, err := New(Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Home:     h,
		Logger:   cfg.Logger,
		Registry: registry,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	serverErr := make(chan error, 1)
	serverCtx, serverCancel := context.WithCancel(ctx)
	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		serverCancel()
		t.Fatalf("server did not start: %v", err)
	}

	t.Run("health_endpoint", func(t *testing.T) {
		resp, err := testutil.HTTPClient().Get(cfg.URL() + "/health")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("status_reports_local_mode", func(t *testing.T) {
		status, err := testutil.GetStatus(cfg.URL())
		if err != nil {
			t.Fatalf("GetStatus() error = %v", err)
		}
		if status.Mode != ModeLocal {
			t.Errorf("Mode = %q, want %q", status.Mode, ModeLocal)
		}
		if len(status.Providers) != 1 || status.Providers[0] != "gemini" {
			t.Errorf("Providers = %v, want [gemini]", status.Providers)
		}
	})

	t.Run("database_in_home", func(t *testing.T) {
		if !h.Exists() {
			t.Error("home directory missing")
		}
		if srv.Services() == nil || srv.Services().DB == nil {
			t.Fatal("services not initialized")
		}
	})

	t.Run("is_running", func(t *testing.T) {
		if !srv.IsRunning() {
			t.Error("IsRunning() = false, want true")
		}
	})

	t.Run("second_start_fails", func(t *testing.T) {
		if err := srv.Start(ctx); err == nil {
			t.Error("expected error starting a running server")
		}
	})

	serverCancel()
	if err := testutil.WaitForShutdown(serverErr, 30*time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown, want false")
	}
}
