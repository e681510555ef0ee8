package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/revrost/go-openrouter"
)

const (
	OpenRouterName         = "openrouter"
	OpenRouterDefaultModel = "google/gemini-2.5-flash"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey       string
	DefaultModel string
	RPS          float64
}

// OpenRouterClient implements LLMClient using the OpenRouter API, which
// routes one request format to many model vendors.
type OpenRouterClient struct {
	client       *openrouter.Client
	apiKey       string
	defaultModel string
	rps          float64
	limiter      *RateLimiter
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = OpenRouterDefaultModel
	}
	return &OpenRouterClient{
		client:       openrouter.NewClient(cfg.APIKey),
		apiKey:       cfg.APIKey,
		defaultModel: cfg.DefaultModel,
		rps:          cfg.RPS,
		limiter:      NewRateLimiter(cfg.RPS),
	}
}

// Name returns the client identifier.
func (c *OpenRouterClient) Name() string {
	return OpenRouterName
}

// Chat sends a chat completion request.
func (c *OpenRouterClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	result := &ChatResult{
		RequestID: requestID(req),
		Provider:  OpenRouterName,
		ModelUsed: model,
		Attempts:  1,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return result.failed("context_cancelled", err, start), err
	}
	result.QueueTime = time.Since(start)

	request := openrouter.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenRouterMessages(req.Messages),
	}
	if req.ResponseFormat != nil {
		// Schema mode is not supported by every routed model; JSON mode is.
		request.ResponseFormat = &openrouter.ChatCompletionResponseFormat{
			Type: openrouter.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	execStart := time.Now()
	response, err := c.client.CreateChatCompletion(ctx, request)
	result.ExecutionTime = time.Since(execStart)
	if err != nil {
		return result.failed("api_error", err, start), fmt.Errorf("failed to create completion: %w", err)
	}
	if len(response.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		return result.failed("empty_response", err, start), err
	}

	result.Content = response.Choices[0].Message.Content.Text
	result.TotalTime = time.Since(start)
	result.Success = true
	return result, nil
}

func toOpenRouterMessages(msgs []Message) []openrouter.ChatCompletionMessage {
	out := make([]openrouter.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openrouter.ChatMessageRoleUser
		switch m.Role {
		case RoleSystem:
			role = openrouter.ChatMessageRoleSystem
		case RoleAssistant:
			role = openrouter.ChatMessageRoleAssistant
		}
		out = append(out, openrouter.ChatCompletionMessage{
			Role:    role,
			Content: openrouter.Content{Text: m.Content},
		})
	}
	return out
}

var _ LLMClient = (*OpenRouterClient)(nil)
