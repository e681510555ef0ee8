package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Provider types accepted in configuration.
const (
	TypeGemini     = "gemini"
	TypeOpenAI     = "openai"
	TypeOpenRouter = "openrouter"
)

// Registry holds the configured LLM clients by name. It supports
// config-driven instantiation and hot-reload with thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	llmClients map[string]LLMClient
	logger     *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	r.logger.Info("registered LLM client", "name", name)
}

// UnregisterLLM removes an LLM client by name.
func (r *Registry) UnregisterLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(name)
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// ListLLM returns all registered LLM client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasLLM checks if an LLM client is registered.
func (r *Registry) HasLLM(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.llmClients[name]
	return ok
}

// Client returns an LLMClient that looks up the provider named by name() on
// every call. Users of the returned client follow registry reloads and
// default-provider changes without being rebuilt.
func (r *Registry) Client(name func() string) LLMClient {
	return &routedClient{registry: r, name: name}
}

type routedClient struct {
	registry *Registry
	name     func() string
}

func (c *routedClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	client, err := c.registry.GetLLM(c.name())
	if err != nil {
		return nil, err
	}
	return client.Chat(ctx, req)
}

func (c *routedClient) Name() string {
	return c.name()
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	LLMProviders map[string]LLMProviderConfig
}

// LLMProviderConfig matches config.LLMProviderCfg with resolved API key.
type LLMProviderConfig struct {
	Type      string  // "gemini", "openai", "openrouter"
	Model     string  // Default model name
	APIKey    string  // Resolved API key
	BaseURL   string  // Optional, openai only
	RateLimit float64 // Requests per second
	Enabled   bool
}

// NewRegistryFromConfig creates a registry with providers based on
// configuration. Only enabled providers with an API key are registered.
func NewRegistryFromConfig(ctx context.Context, cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(ctx, cfg)
	return r
}

// Reload updates the registry based on new configuration. Providers that are
// no longer configured are unregistered; providers with changed settings are
// recreated.
func (r *Registry) Reload(ctx context.Context, cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, provCfg := range cfg.LLMProviders {
		if !provCfg.Enabled || provCfg.APIKey == "" {
			continue
		}
		want[name] = true

		existing, hasExisting := r.llmClients[name]
		if hasExisting && !needsLLMUpdate(existing, provCfg) {
			continue
		}
		client, err := createLLMClient(ctx, provCfg)
		if err != nil {
			r.logger.Warn("failed to create LLM client", "name", name, "type", provCfg.Type, "error", err)
			continue
		}
		if hasExisting {
			closeClient(existing)
			r.logger.Info("updated LLM client", "name", name, "type", provCfg.Type)
		} else {
			r.logger.Info("registered LLM client", "name", name, "type", provCfg.Type)
		}
		r.llmClients[name] = client
	}

	for name := range r.llmClients {
		if !want[name] {
			r.remove(name)
		}
	}
}

// remove must be called with the lock held.
func (r *Registry) remove(name string) {
	client, ok := r.llmClients[name]
	if !ok {
		return
	}
	closeClient(client)
	delete(r.llmClients, name)
	r.logger.Info("unregistered LLM client", "name", name)
}

// Close releases every client that holds a connection.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.llmClients {
		closeClient(c)
	}
}

func closeClient(c LLMClient) {
	if closer, ok := c.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// createLLMClient creates an LLM client based on provider type.
func createLLMClient(ctx context.Context, cfg LLMProviderConfig) (LLMClient, error) {
	switch cfg.Type {
	case TypeGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			RPS:          cfg.RateLimit,
		})
	case TypeOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			RPS:          cfg.RateLimit,
		}), nil
	case TypeOpenRouter:
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			RPS:          cfg.RateLimit,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
}

// needsLLMUpdate checks if an LLM client needs to be recreated.
func needsLLMUpdate(client LLMClient, cfg LLMProviderConfig) bool {
	switch c := client.(type) {
	case *GeminiClient:
		return cfg.Type != TypeGemini ||
			c.apiKey != cfg.APIKey ||
			c.defaultModel != modelOr(cfg.Model, GeminiDefaultModel) ||
			c.rps != cfg.RateLimit
	case *OpenAIClient:
		return cfg.Type != TypeOpenAI ||
			c.apiKey != cfg.APIKey ||
			c.baseURL != cfg.BaseURL ||
			c.defaultModel != modelOr(cfg.Model, OpenAIDefaultModel) ||
			c.rps != cfg.RateLimit
	case *OpenRouterClient:
		return cfg.Type != TypeOpenRouter ||
			c.apiKey != cfg.APIKey ||
			c.defaultModel != modelOr(cfg.Model, OpenRouterDefaultModel) ||
			c.rps != cfg.RateLimit
	default:
		return true
	}
}

func modelOr(model, def string) string {
	if model == "" {
		return def
	}
	return model
}
