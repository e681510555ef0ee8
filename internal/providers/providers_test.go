package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
)

func TestMockClient(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello world"

		result, err := c.Chat(context.Background(), &ChatRequest{
			Model:    "test-model",
			Messages: []Message{{Role: RoleUser, Content: "test"}},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Success = false, want true")
		}
		if result.Content != "hello world" {
			t.Errorf("Content = %q, want %q", result.Content, "hello world")
		}
		if c.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", c.RequestCount())
		}
	})

	t.Run("responder", func(t *testing.T) {
		c := NewMockClient()
		c.Responder = func(req *ChatRequest) (string, error) {
			_, user := req.SystemAndUser()
			if strings.Contains(user, "fail") {
				return "", errors.New("boom")
			}
			return "echo: " + user, nil
		}

		result, err := c.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
		if err != nil || result.Content != "echo: hi" {
			t.Fatalf("Chat() = %q, %v", result.Content, err)
		}

		result, err = c.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: RoleUser, Content: "fail"}}})
		if err == nil || result.Success {
			t.Error("expected responder error to fail the request")
		}
		if len(c.Requests()) != 2 {
			t.Errorf("Requests() = %d, want 2", len(c.Requests()))
		}
	})

	t.Run("should fail", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true

		result, err := c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Error("expected error")
		}
		if result.Success || result.ErrorType != "mock_failure" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("fail after", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 2

		for i := 0; i < 2; i++ {
			if _, err := c.Chat(context.Background(), &ChatRequest{}); err != nil {
				t.Fatalf("request %d failed: %v", i+1, err)
			}
		}
		if _, err := c.Chat(context.Background(), &ChatRequest{}); err == nil {
			t.Error("expected third request to fail")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		c := NewMockClient()
		c.Latency = time.Second

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Chat(ctx, &ChatRequest{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestSystemAndUser(t *testing.T) {
	req := &ChatRequest{Messages: []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "part one"},
		{Role: RoleUser, Content: "part two"},
	}}

	system, user := req.SystemAndUser()
	if system != "be brief" {
		t.Errorf("system = %q", system)
	}
	if user != "part one\n\npart two" {
		t.Errorf("user = %q", user)
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("burst then empty", func(t *testing.T) {
		r := NewRateLimiter(2)
		if !r.TryConsume() || !r.TryConsume() {
			t.Fatal("expected two tokens in the initial burst")
		}
		if r.TryConsume() {
			t.Error("expected bucket to be empty")
		}
		if r.Status().TotalConsumed != 2 {
			t.Errorf("TotalConsumed = %d, want 2", r.Status().TotalConsumed)
		}
	})

	t.Run("wait refills", func(t *testing.T) {
		r := NewRateLimiter(50)
		r.Record429()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := r.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		if r.Status().Last429Time.IsZero() {
			t.Error("expected 429 time to be recorded")
		}
	})

	t.Run("wait respects context", func(t *testing.T) {
		r := NewRateLimiter(0.01)
		r.TryConsume()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Wait() error = %v, want deadline exceeded", err)
		}
	})
}

func TestOpenAIClient_Chat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"a\":1}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1/", RPS: 100})
	result, err := c.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "hello"},
		},
		ResponseFormat: &ResponseFormat{Type: ResponseFormatJSONObject},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Content != `{"a":1}` {
		t.Errorf("Content = %q", result.Content)
	}
	if result.TotalTokens != 17 || result.PromptTokens != 12 {
		t.Errorf("tokens = %d/%d", result.PromptTokens, result.TotalTokens)
	}
	if got["model"] != OpenAIDefaultModel {
		t.Errorf("model sent = %v", got["model"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("messages sent = %d, want 2", len(msgs))
	}
	if rf, _ := got["response_format"].(map[string]any); rf["type"] != "json_object" {
		t.Errorf("response_format = %v", got["response_format"])
	}
}

func TestOpenAIClient_JSONSchemaFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{}"}}]}`)
	}))
	defer srv.Close()

	schema := json.RawMessage(`{"type":"object","required":["tldr"],"properties":{"tldr":{"type":"string"}}}`)
	c := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1/", RPS: 100})
	_, err := c.Chat(context.Background(), &ChatRequest{
		Messages:       []Message{{Role: RoleUser, Content: "hi"}},
		ResponseFormat: JSONSchemaFormat("generate-summary", schema),
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	rf, _ := got["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Fatalf("response_format = %v", got["response_format"])
	}
	js, _ := rf["json_schema"].(map[string]any)
	if js["name"] != "generate-summary" {
		t.Errorf("schema name = %v", js["name"])
	}
	sent, _ := js["schema"].(map[string]any)
	if req, _ := sent["required"].([]any); len(req) != 1 || req[0] != "tldr" {
		t.Errorf("schema sent = %v", js["schema"])
	}
}

func TestJSONSchemaFormat_EmptySchema(t *testing.T) {
	if f := JSONSchemaFormat("x", nil); f.Type != ResponseFormatJSONObject {
		t.Errorf("Type = %q, want json_object", f.Type)
	}
}

func TestOpenAIClient_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error": {"message": "slow down", "type": "rate_limit"}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1/", RPS: 100})
	result, err := c.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Success || result.ErrorType != "rate_limited" {
		t.Errorf("ErrorType = %q, want rate_limited", result.ErrorType)
	}
	if c.limiter.Status().Last429Time.IsZero() {
		t.Error("expected limiter to record the 429")
	}
}

func TestGeminiExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}}},
			{Content: nil},
		},
	}
	if got := extractText(resp); got != `{"a":1}` {
		t.Errorf("extractText() = %q", got)
	}
	if got := extractText(nil); got != "" {
		t.Errorf("extractText(nil) = %q", got)
	}
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), GeminiConfig{}); err == nil {
		t.Error("expected error without api key")
	}
}

func TestGeminiClient_Live(t *testing.T) {
	cfg := LoadTestConfig()
	if !cfg.HasGemini() {
		t.Skip("GEMINI_API_KEY not set")
	}
	c := cfg.NewGeminiClient(context.Background())
	if c == nil {
		t.Fatal("failed to create client")
	}
	defer c.Close()

	result, err := c.Chat(context.Background(), &ChatRequest{
		Messages:       []Message{{Role: RoleUser, Content: `Return {"ok": true} and nothing else.`}},
		ResponseFormat: &ResponseFormat{Type: ResponseFormatJSONObject},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !strings.Contains(result.Content, "ok") {
		t.Errorf("Content = %q", result.Content)
	}
}
