package config

import "time"

// Config holds podsaas configuration.
// Stored at: ./config.yaml or ~/.podsaas/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Pipeline     PipelineCfg               `mapstructure:"pipeline" yaml:"pipeline"`
	Database     DatabaseCfg               `mapstructure:"database" yaml:"database"`
	Redis        RedisCfg                  `mapstructure:"redis" yaml:"redis"`
	Temporal     TemporalCfg               `mapstructure:"temporal" yaml:"temporal"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
}

// LLMProviderCfg configures a generation backend.
type LLMProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`                   // "gemini", "openai", "openrouter"
	Model     string  `mapstructure:"model" yaml:"model"`                 // Model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`             // API key (supports ${ENV_VAR} syntax)
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url,omitempty"` // OpenAI-compatible endpoints only
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`       // Requests per second
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	LLMProvider     string  `mapstructure:"llm_provider" yaml:"llm_provider"`         // Default LLM provider
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`           // Sampling temperature
	MaxConcurrency  int     `mapstructure:"max_concurrency" yaml:"max_concurrency"`   // Concurrent asset steps per job
	MaxJobs         int     `mapstructure:"max_jobs" yaml:"max_jobs"`                 // Concurrent local jobs
	ProviderWorkers int     `mapstructure:"provider_workers" yaml:"provider_workers"` // Concurrent backend calls across all jobs
}

// PipelineCfg tunes the extraction pipeline and local step retries.
type PipelineCfg struct {
	RawLogLimit  int           `mapstructure:"raw_log_limit" yaml:"raw_log_limit"` // Characters of raw model text logged on failure
	StepAttempts uint          `mapstructure:"step_attempts" yaml:"step_attempts"`
	StepDelay    time.Duration `mapstructure:"step_delay" yaml:"step_delay"`
}

// DatabaseCfg configures the embedded store.
type DatabaseCfg struct {
	// Path is the SQLite file (default: ~/.podsaas/podsaas.db)
	Path  string `mapstructure:"path" yaml:"path"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// RedisCfg configures status fan-out.
type RedisCfg struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr          string `mapstructure:"addr" yaml:"addr"`
	Password      string `mapstructure:"password" yaml:"password"` // supports ${ENV_VAR} syntax
	DB            int    `mapstructure:"db" yaml:"db"`
	ChannelPrefix string `mapstructure:"channel_prefix" yaml:"channel_prefix"`
}

// TemporalCfg configures durable execution.
type TemporalCfg struct {
	Enabled               bool          `mapstructure:"enabled" yaml:"enabled"`
	Address               string        `mapstructure:"address" yaml:"address"`
	Namespace             string        `mapstructure:"namespace" yaml:"namespace"`
	TaskQueue             string        `mapstructure:"task_queue" yaml:"task_queue"`
	ActivityTimeout       time.Duration `mapstructure:"activity_timeout" yaml:"activity_timeout"`
	MaxAttempts           int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	AutoRegisterNamespace bool          `mapstructure:"auto_register_namespace" yaml:"auto_register_namespace"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {
				Type:      "gemini",
				Model:     "gemini-2.5-flash",
				APIKey:    "${GEMINI_API_KEY}",
				RateLimit: 5,
				Enabled:   true,
			},
			"openrouter": {
				Type:      "openrouter",
				Model:     "google/gemini-2.5-flash",
				APIKey:    "${OPENROUTER_API_KEY}",
				RateLimit: 5,
				Enabled:   false,
			},
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 5,
				Enabled:   false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:     "gemini",
			Temperature:     0.7,
			MaxConcurrency:  6,
			MaxJobs:         4,
			ProviderWorkers: 8,
		},
		Pipeline: PipelineCfg{
			RawLogLimit:  500,
			StepAttempts: 3,
			StepDelay:    time.Second,
		},
		Redis: RedisCfg{
			Addr:          "localhost:6379",
			ChannelPrefix: "podsaas:jobs",
		},
		Temporal: TemporalCfg{
			Address:         "localhost:7233",
			Namespace:       "podsaas",
			TaskQueue:       "podsaas-assets",
			ActivityTimeout: 5 * time.Minute,
			MaxAttempts:     3,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
