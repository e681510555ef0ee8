// Package llmcall records every LLM API call for traceability: which job
// and step made it, which prompt version it used, what came back.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/nagdatt/ai-podcast-saas/internal/providers"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id" gorm:"primaryKey;size:36"`

	// Timing
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	LatencyMs int       `json:"latency_ms"`
	QueueMs   int       `json:"queue_ms,omitempty"` // Time spent waiting for a pool worker

	// Context references
	JobID string `json:"job_id,omitempty" gorm:"index"`
	Step  string `json:"step,omitempty"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key" gorm:"index"`
	PromptHash string `json:"prompt_hash,omitempty"` // Hash of the exact template version used

	// Model info
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`

	// Token usage
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Cost as reported by the provider (0 when unknown)
	CostUSD float64 `json:"cost_usd,omitempty"`

	// Response
	Response string `json:"response"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TableName keeps the table name stable across struct renames.
func (Call) TableName() string {
	return "llm_calls"
}

// Models lists the gorm models this package persists.
func Models() []any {
	return []any{&Call{}}
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	// Context references (all optional)
	JobID string
	Step  string

	// Prompt identification (required for traceability)
	PromptKey  string
	PromptHash string

	// Request parameters (pointer to distinguish "not set" from "set to 0")
	Temperature *float64
}

// FromChatResult creates a Call from a ChatResult.
// Returns nil if result is nil.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	call := &Call{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		LatencyMs:    int(result.ExecutionTime.Milliseconds()),
		QueueMs:      int(result.QueueTime.Milliseconds()),
		JobID:        opts.JobID,
		Step:         opts.Step,
		PromptKey:    opts.PromptKey,
		PromptHash:   opts.PromptHash,
		Provider:     result.Provider,
		Model:        result.ModelUsed,
		Temperature:  opts.Temperature,
		InputTokens:  result.PromptTokens,
		OutputTokens: result.CompletionTokens,
		CostUSD:      result.CostUSD,
		Response:     result.Content,
		Success:      result.Success,
	}
	if !result.Success {
		call.Error = result.ErrorMessage
	}
	return call
}
