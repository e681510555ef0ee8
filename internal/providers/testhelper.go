package providers

import (
	"context"
	"os"
)

// TestConfig holds provider API keys loaded from environment variables so
// live tests use the same configuration pattern as production.
type TestConfig struct {
	GeminiAPIKey     string
	OpenAIAPIKey     string
	OpenRouterAPIKey string
}

// LoadTestConfig loads provider API keys from environment variables.
func LoadTestConfig() TestConfig {
	return TestConfig{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
	}
}

// HasGemini returns true if a Gemini API key is configured.
func (c TestConfig) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// NewGeminiClient creates a Gemini client from test config, or nil if not
// configured.
func (c TestConfig) NewGeminiClient(ctx context.Context) *GeminiClient {
	if !c.HasGemini() {
		return nil
	}
	client, err := NewGeminiClient(ctx, GeminiConfig{APIKey: c.GeminiAPIKey})
	if err != nil {
		return nil
	}
	return client
}

// RegistryConfig builds a registry config with every provider that has a key.
func (c TestConfig) RegistryConfig() RegistryConfig {
	return RegistryConfig{LLMProviders: map[string]LLMProviderConfig{
		TypeGemini:     {Type: TypeGemini, APIKey: c.GeminiAPIKey, Enabled: true},
		TypeOpenAI:     {Type: TypeOpenAI, APIKey: c.OpenAIAPIKey, Enabled: true},
		TypeOpenRouter: {Type: TypeOpenRouter, APIKey: c.OpenRouterAPIKey, Enabled: true},
	}}
}
