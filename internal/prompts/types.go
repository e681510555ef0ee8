// Package prompts manages the prompt templates used for asset generation.
//
// Each use case embeds its system and user templates as .tmpl files and
// registers them here, so the server can list them and every LLM call record
// can carry the hash of the exact template version that produced it.
package prompts

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   `json:"key"`                   // Hierarchical key: assets.summary.system
	Text        string   `json:"text"`                  // The prompt text (Go template)
	Description string   `json:"description,omitempty"` // Human-readable description
	Variables   []string `json:"variables,omitempty"`   // Extracted template variables
	Hash        string   `json:"hash"`                  // SHA256 hash of the text for change detection
}
