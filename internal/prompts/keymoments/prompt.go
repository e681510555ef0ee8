package keymoments

import (
	_ "embed"

	"github.com/nagdatt/ai-podcast-saas/internal/prompts"
	"github.com/nagdatt/ai-podcast-saas/internal/structured"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = prompts.MustParse("user", userPromptTmpl)

// Prompt keys
const (
	SystemPromptKey = "assets.keymoments.system"
	UserPromptKey   = "assets.keymoments.user"
)

// SystemPrompt returns the system prompt for key moment generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt lists every anchor with its index, start second, headline and
// summary.
func UserPrompt(anchors []structured.Anchor) string {
	data := struct{ Anchors []structured.Anchor }{Anchors: anchors}
	out, err := prompts.Render(userTemplate, data)
	if err != nil {
		return userPromptTmpl
	}
	return out
}

// Build returns the complete prompt for a set of chapter anchors.
func Build(anchors []structured.Anchor) structured.Prompt {
	return structured.Prompt{System: SystemPrompt(), User: UserPrompt(anchors)}
}

// RegisterPrompts registers the key moment prompts with the registry.
func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Key moments system prompt - content optimization persona",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Key moments user prompt template - per-chapter title and description",
	})
}
