package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Readiness check
//	@Description	Reports whether the database and the enabled backing services are reachable
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Dependencies: map[string]string{}}

	db := svcctx.DBFrom(r.Context())
	if db == nil {
		resp.Status = "degraded"
		resp.Dependencies["database"] = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		resp.Status = "degraded"
		resp.Dependencies["database"] = "unhealthy"
	} else {
		resp.Dependencies["database"] = "ok"
	}

	if s := svcctx.ServicesFrom(r.Context()); s != nil {
		for name, p := range s.Dependencies {
			if err := p.Ping(r.Context()); err != nil {
				resp.Status = "degraded"
				resp.Dependencies[name] = "unhealthy"
				continue
			}
			resp.Dependencies[name] = "ok"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (database, redis, temporal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			// a degraded server answers 503, which the client reports as an error
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			names := make([]string, 0, len(resp.Dependencies))
			for name := range resp.Dependencies {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-10s %s\n", name+":", resp.Dependencies[name])
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string           `json:"server"`
	Mode      string           `json:"mode"`
	Providers []string         `json:"providers"`
	Prompts   int              `json:"prompts"`
	Pool      *jobs.PoolStatus `json:"pool,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Registered LLM providers, execution mode, prompt count and provider pool activity
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Server: "running", Mode: "not_initialized", Providers: []string{}}

	if s := svcctx.ServicesFrom(r.Context()); s != nil && s.Mode != "" {
		resp.Mode = s.Mode
	}
	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Providers = registry.ListLLM()
	}
	if p := svcctx.PromptsFrom(r.Context()); p != nil {
		resp.Prompts = len(p.All())
	}
	if s := svcctx.ServicesFrom(r.Context()); s != nil && s.Pool != nil {
		status := s.Pool.Status()
		resp.Pool = &status
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server:    %s\n", resp.Server)
			fmt.Printf("Mode:      %s\n", resp.Mode)
			fmt.Printf("Providers: %v\n", resp.Providers)
			fmt.Printf("Prompts:   %d\n", resp.Prompts)
			if p := resp.Pool; p != nil {
				fmt.Printf("Pool:      %s workers=%d in_flight=%d queued=%d completed=%d failed=%d\n",
					p.Provider, p.Workers, p.InFlight, p.Queued, p.Completed, p.Failed)
			}
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
