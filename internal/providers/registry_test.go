package providers

import (
	"context"
	"sync"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get LLM", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()

		r.RegisterLLM("test-llm", mock)

		client, err := r.GetLLM("test-llm")
		if err != nil {
			t.Fatalf("GetLLM() error = %v", err)
		}
		if client != mock {
			t.Error("got different client than registered")
		}
	})

	t.Run("get nonexistent LLM", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.GetLLM("nonexistent")
		if err == nil {
			t.Error("expected error for nonexistent LLM")
		}
	})

	t.Run("list is sorted", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("llm2", NewMockClient())
		r.RegisterLLM("llm1", NewMockClient())

		got := r.ListLLM()
		if len(got) != 2 || got[0] != "llm1" || got[1] != "llm2" {
			t.Errorf("ListLLM() = %v, want [llm1 llm2]", got)
		}
	})

	t.Run("routed client follows registry", func(t *testing.T) {
		r := NewRegistry()
		name := "primary"
		client := r.Client(func() string { return name })

		if _, err := client.Chat(context.Background(), &ChatRequest{}); err == nil {
			t.Fatal("expected error before provider is registered")
		}

		first := NewMockClient()
		first.ResponseText = "first"
		r.RegisterLLM("primary", first)
		second := NewMockClient()
		second.ResponseText = "second"
		r.RegisterLLM("secondary", second)

		res, err := client.Chat(context.Background(), &ChatRequest{})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if res.Content != "first" {
			t.Errorf("Content = %q, want first", res.Content)
		}

		name = "secondary"
		res, err = client.Chat(context.Background(), &ChatRequest{})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if res.Content != "second" || client.Name() != "secondary" {
			t.Errorf("got %q from %q, want second from secondary", res.Content, client.Name())
		}
	})

	t.Run("unregister", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("my-llm", NewMockClient())
		r.UnregisterLLM("my-llm")

		if r.HasLLM("my-llm") {
			t.Error("HasLLM() = true after unregister")
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		r := NewRegistry()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.RegisterLLM("concurrent-llm", NewMockClient())
			}()
			go func() {
				defer wg.Done()
				r.GetLLM("concurrent-llm") // May fail, that's ok
			}()
		}
		wg.Wait()
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("registers providers from config", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: TypeOpenRouter, Model: "google/gemini-2.5-flash", APIKey: "k1", Enabled: true},
				"openai":     {Type: TypeOpenAI, APIKey: "k2", Enabled: true},
			},
		})

		if !r.HasLLM("openrouter") {
			t.Error("expected openrouter to be registered")
		}
		if !r.HasLLM("openai") {
			t.Error("expected openai to be registered")
		}
	})

	t.Run("skips disabled providers", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: TypeOpenRouter, APIKey: "test-key", Enabled: false},
			},
		})

		if r.HasLLM("openrouter") {
			t.Error("disabled provider should not be registered")
		}
	})

	t.Run("skips providers without API keys", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"gemini": {Type: TypeGemini, APIKey: "", Enabled: true},
			},
		})

		if r.HasLLM("gemini") {
			t.Error("provider without API key should not be registered")
		}
	})

	t.Run("skips unknown provider types", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"weird": {Type: "carrier-pigeon", APIKey: "k", Enabled: true},
			},
		})

		if r.HasLLM("weird") {
			t.Error("unknown provider type should not be registered")
		}
	})

	t.Run("uses custom model", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openrouter": {Type: TypeOpenRouter, Model: "custom-model", APIKey: "test-key", Enabled: true},
			},
		})

		client, _ := r.GetLLM("openrouter")
		orClient, ok := client.(*OpenRouterClient)
		if !ok {
			t.Fatal("expected OpenRouterClient")
		}
		if orClient.defaultModel != "custom-model" {
			t.Errorf("expected custom-model, got %s", orClient.defaultModel)
		}
	})
}

func TestRegistry_Reload(t *testing.T) {
	ctx := context.Background()

	t.Run("adds new providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{})
		r.Reload(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {Type: TypeOpenAI, APIKey: "k", Enabled: true},
			},
		})

		if !r.HasLLM("openai") {
			t.Error("expected openai after reload")
		}
	})

	t.Run("removes providers no longer configured", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {Type: TypeOpenAI, APIKey: "k", Enabled: true},
			},
		})
		r.Reload(ctx, RegistryConfig{})

		if r.HasLLM("openai") {
			t.Error("expected openai to be removed")
		}
	})

	t.Run("keeps unchanged client instance", func(t *testing.T) {
		cfg := RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {Type: TypeOpenAI, APIKey: "k", RateLimit: 2, Enabled: true},
			},
		}
		r := NewRegistryFromConfig(ctx, cfg)
		before, _ := r.GetLLM("openai")

		r.Reload(ctx, cfg)
		after, _ := r.GetLLM("openai")
		if before != after {
			t.Error("unchanged config should keep the same client")
		}
	})

	t.Run("recreates client on changed model", func(t *testing.T) {
		r := NewRegistryFromConfig(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {Type: TypeOpenAI, APIKey: "k", Enabled: true},
			},
		})
		before, _ := r.GetLLM("openai")

		r.Reload(ctx, RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {Type: TypeOpenAI, Model: "gpt-4.1", APIKey: "k", Enabled: true},
			},
		})
		after, _ := r.GetLLM("openai")
		if before == after {
			t.Error("changed model should recreate the client")
		}
		if after.(*OpenAIClient).defaultModel != "gpt-4.1" {
			t.Errorf("defaultModel = %s, want gpt-4.1", after.(*OpenAIClient).defaultModel)
		}
	})
}

func TestNeedsLLMUpdate_Gemini(t *testing.T) {
	client := &GeminiClient{apiKey: "k1", defaultModel: GeminiDefaultModel, rps: 5}
	base := LLMProviderConfig{Type: TypeGemini, APIKey: "k1", RateLimit: 5}

	if needsLLMUpdate(client, base) {
		t.Error("same settings should keep the client")
	}

	rotated := base
	rotated.APIKey = "k2"
	if !needsLLMUpdate(client, rotated) {
		t.Error("a rotated api key should recreate the client")
	}

	throttled := base
	throttled.RateLimit = 1
	if !needsLLMUpdate(client, throttled) {
		t.Error("a changed rate limit should recreate the client")
	}
}
