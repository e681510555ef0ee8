package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	GeminiName         = "gemini"
	GeminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey       string
	DefaultModel string
	RPS          float64
}

// GeminiClient implements LLMClient using the Google Generative Language API.
type GeminiClient struct {
	client       *genai.Client
	apiKey       string
	defaultModel string
	rps          float64
	limiter      *RateLimiter
}

// NewGeminiClient creates a Gemini client. The underlying connection is
// created once and shared by all requests.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = GeminiDefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:       client,
		apiKey:       cfg.APIKey,
		defaultModel: cfg.DefaultModel,
		rps:          cfg.RPS,
		limiter:      NewRateLimiter(cfg.RPS),
	}, nil
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Chat sends a generate-content request. The system message becomes the
// model's system instruction.
func (c *GeminiClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	result := &ChatResult{
		RequestID: requestID(req),
		Provider:  GeminiName,
		ModelUsed: c.modelFor(req),
		Attempts:  1,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return result.failed("context_cancelled", err, start), err
	}
	result.QueueTime = time.Since(start)

	model := c.client.GenerativeModel(result.ModelUsed)
	system, user := req.SystemAndUser()
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if req.ResponseFormat != nil {
		model.ResponseMIMEType = "application/json"
	}
	if req.Temperature > 0 {
		model.SetTemperature(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	execStart := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(user))
	result.ExecutionTime = time.Since(execStart)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 429 {
			c.limiter.Record429()
			return result.failed("rate_limited", err, start), fmt.Errorf("gemini rate limited: %w", err)
		}
		return result.failed("api_error", err, start), fmt.Errorf("gemini API error: %w", err)
	}

	result.Content = extractText(resp)
	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	result.TotalTime = time.Since(start)

	if result.Content == "" {
		err := fmt.Errorf("gemini returned no text (finish reason: %s)", finishReason(resp))
		return result.failed("empty_response", err, start), err
	}
	result.Success = true
	return result, nil
}

func (c *GeminiClient) modelFor(req *ChatRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return c.defaultModel
}

// extractText concatenates the text parts of every candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String()
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return "no candidates"
	}
	return resp.Candidates[0].FinishReason.String()
}

func requestID(req *ChatRequest) string {
	if req.RequestID != "" {
		return req.RequestID
	}
	return uuid.New().String()
}

var _ LLMClient = (*GeminiClient)(nil)
