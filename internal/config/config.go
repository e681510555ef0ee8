package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/nagdatt/ai-podcast-saas/internal/database"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
	"github.com/nagdatt/ai-podcast-saas/internal/workflow/temporal"
)

// EnvPrefix prefixes environment overrides, e.g. PODSAAS_SERVER_PORT.
const EnvPrefix = "PODSAAS"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
	logger    *slog.Logger
}

// NewManager creates a new config manager and loads initial config.
// homeDir is searched for config.yaml after the working directory.
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
		logger:    slog.Default(),
	}

	if err := cm.initViper(cfgFile, homeDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, homeDir string) error {
	defaults := DefaultConfig()
	v := cm.v
	v.SetDefault("llm_providers", defaults.LLMProviders)
	v.SetDefault("defaults", defaults.Defaults)
	v.SetDefault("pipeline", defaults.Pipeline)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("redis", defaults.Redis)
	v.SetDefault("temporal", defaults.Temporal)
	v.SetDefault("server", defaults.Server)

	// Environment variables with PODSAAS_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir != "" {
			v.AddConfigPath(homeDir)
		}
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the file the config was read from, if any.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// SetLogger sets the logger used to report reload failures.
func (cm *Manager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		cm.logger = logger
	}
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			cm.logger.Warn("config reload failed", "file", e.Name, "error", err)
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		cm.logger.Info("config reloaded", "file", e.Name)
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToProviderRegistryConfig converts the config to a format suitable for providers.Registry.
// It resolves all ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig),
	}

	for name, llm := range c.LLMProviders {
		cfg.LLMProviders[name] = providers.LLMProviderConfig{
			Type:      llm.Type,
			Model:     llm.Model,
			APIKey:    ResolveEnvVars(llm.APIKey),
			BaseURL:   ResolveEnvVars(llm.BaseURL),
			RateLimit: llm.RateLimit,
			Enabled:   llm.Enabled,
		}
	}

	return cfg
}

// DatabaseConfig returns the store settings. An empty path falls back to
// defaultPath.
func (c *Config) DatabaseConfig(defaultPath string) database.Config {
	path := c.Database.Path
	if path == "" {
		path = defaultPath
	}
	return database.Config{Path: path, Debug: c.Database.Debug}
}

// RedisConfig returns the publisher settings.
func (c *Config) RedisConfig() jobs.RedisConfig {
	return jobs.RedisConfig{
		Addr:          c.Redis.Addr,
		Password:      ResolveEnvVars(c.Redis.Password),
		DB:            c.Redis.DB,
		ChannelPrefix: c.Redis.ChannelPrefix,
	}
}

// TemporalConfig returns the client and workflow settings.
func (c *Config) TemporalConfig() temporal.Config {
	return temporal.Config{
		Address:               c.Temporal.Address,
		Namespace:             c.Temporal.Namespace,
		TaskQueue:             c.Temporal.TaskQueue,
		ActivityTimeout:       c.Temporal.ActivityTimeout,
		MaxAttempts:           c.Temporal.MaxAttempts,
		AutoRegisterNamespace: c.Temporal.AutoRegisterNamespace,
		WorkerConcurrency:     c.Defaults.MaxConcurrency,
	}.WithDefaults()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# podsaas configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export GEMINI_API_KEY=xxx OPENROUTER_API_KEY=xxx OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
