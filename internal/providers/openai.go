package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	OpenAIName         = "openai"
	OpenAIDefaultModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the OpenAI chat client. BaseURL lets
// the client target any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	RPS          float64
	MaxRetries   int
}

// OpenAIClient implements LLMClient using the OpenAI chat completions API.
type OpenAIClient struct {
	client       openai.Client
	apiKey       string
	baseURL      string
	defaultModel string
	rps          float64
	limiter      *RateLimiter
}

// NewOpenAIClient creates an OpenAI chat client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = OpenAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		rps:          cfg.RPS,
		limiter:      NewRateLimiter(cfg.RPS),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	result := &ChatResult{
		RequestID: requestID(req),
		Provider:  OpenAIName,
		ModelUsed: model,
		Attempts:  1,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return result.failed("context_cancelled", err, start), err
	}
	result.QueueTime = time.Since(start)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toOpenAIMessages(req.Messages),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.ResponseFormat != nil {
		params.ResponseFormat = toOpenAIResponseFormat(req.ResponseFormat)
	}

	execStart := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	result.ExecutionTime = time.Since(execStart)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			c.limiter.Record429()
			return result.failed("rate_limited", err, start), fmt.Errorf("openai rate limited: %w", err)
		}
		return result.failed("api_error", err, start), fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		return result.failed("empty_response", err, start), err
	}

	result.Content = resp.Choices[0].Message.Content
	if resp.Model != "" {
		result.ModelUsed = resp.Model
	}
	result.PromptTokens = int(resp.Usage.PromptTokens)
	result.CompletionTokens = int(resp.Usage.CompletionTokens)
	result.TotalTokens = int(resp.Usage.TotalTokens)
	result.TotalTime = time.Since(start)
	result.Success = true
	return result, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

var _ LLMClient = (*OpenAIClient)(nil)

// toOpenAIResponseFormat maps a schema request onto json_schema mode without
// strict decoding, since strict mode rejects schemas that leave
// additionalProperties open. Anything unusable degrades to JSON mode.
func toOpenAIResponseFormat(f *ResponseFormat) openai.ChatCompletionNewParamsResponseFormatUnion {
	if f.Type == ResponseFormatJSONSchema && len(f.JSONSchema) > 0 {
		var schema map[string]any
		if err := json.Unmarshal(f.JSONSchema, &schema); err == nil {
			name := f.Name
			if name == "" {
				name = "result"
			}
			return openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   name,
						Schema: schema,
					},
				},
			}
		}
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
	}
}
