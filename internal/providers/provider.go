// Package providers wraps the hosted language-model backends behind one
// chat interface. Asset generation only ever needs "prompt in, text out";
// token and cost accounting ride along on ChatResult for llm call records.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// LLMClient is the interface every generation backend implements.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Response format types.
const (
	ResponseFormatJSONObject = "json_object"
	ResponseFormatJSONSchema = "json_schema"
)

// ResponseFormat asks the backend for JSON output. Backends that cannot
// enforce a schema fall back to plain JSON mode; the caller still validates.
type ResponseFormat struct {
	Type       string          `json:"type"`
	Name       string          `json:"name,omitempty"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Structured output
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// JSONSchemaFormat asks for output matching schema. An empty schema asks for
// plain JSON mode.
func JSONSchemaFormat(name string, schema json.RawMessage) *ResponseFormat {
	if len(schema) == 0 {
		return &ResponseFormat{Type: ResponseFormatJSONObject}
	}
	return &ResponseFormat{Type: ResponseFormatJSONSchema, Name: name, JSONSchema: schema}
}

// SystemAndUser splits the request into a system instruction and the joined
// remaining content, for backends that take the two separately.
func (r *ChatRequest) SystemAndUser() (system, user string) {
	for _, m := range r.Messages {
		switch m.Role {
		case RoleSystem:
			system = joinNonEmpty(system, m.Content)
		default:
			user = joinNonEmpty(user, m.Content)
		}
	}
	return system, user
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "\n\n" + b
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	// Response content
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Cost and timing
	CostUSD       float64       `json:"cost_usd"`
	QueueTime     time.Duration `json:"queue_time"`
	ExecutionTime time.Duration `json:"execution_time"`
	TotalTime     time.Duration `json:"total_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// failed fills in the error fields of a result.
func (r *ChatResult) failed(errType string, err error, start time.Time) *ChatResult {
	r.Success = false
	r.ErrorType = errType
	r.ErrorMessage = err.Error()
	r.TotalTime = time.Since(start)
	return r
}
