package summary

import (
	_ "embed"

	"github.com/nagdatt/ai-podcast-saas/internal/prompts"
	"github.com/nagdatt/ai-podcast-saas/internal/structured"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = prompts.MustParse("user", userPromptTmpl)

// PreviewChars is how much transcript text the model sees.
const PreviewChars = 3000

// Prompt keys
const (
	SystemPromptKey = "assets.summary.system"
	UserPromptKey   = "assets.summary.user"
)

// SystemPrompt returns the system prompt for summary generation.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for summary generation.
func UserPrompt(t *transcript.Transcript) string {
	data := struct {
		PreviewChars int
		Preview      string
		Chapters     []transcript.Chapter
	}{
		PreviewChars: PreviewChars,
		Preview:      t.Preview(PreviewChars),
		Chapters:     t.Chapters,
	}
	out, err := prompts.Render(userTemplate, data)
	if err != nil {
		return userPromptTmpl
	}
	return out
}

// Build returns the complete prompt for a transcript.
func Build(t *transcript.Transcript) structured.Prompt {
	return structured.Prompt{System: SystemPrompt(), User: UserPrompt(t)}
}

// RegisterPrompts registers the summary prompts with the registry.
func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Summary system prompt - podcast content analyst persona",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Summary user prompt template - overview, bullets, insights and tldr",
	})
}
