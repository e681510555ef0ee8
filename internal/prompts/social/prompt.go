package social

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

const (
	// SummaryPreviewChars is used when the transcript has no chapter summary.
	SummaryPreviewChars = 500
	// TopicLimit caps how many headlines are listed.
	TopicLimit = 5
)

const (
	SystemPromptKey = "assets.social.system"
	UserPromptKey   = "assets.social.user"
)

func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt uses the first chapter summary as the episode summary, falling
// back to the start of the transcript text.
func UserPrompt(t *transcript.Transcript) string {
	summary := t.Preview(SummaryPreviewChars)
	if len(t.Chapters) > 0 && t.Chapters[0].Summary != "" {
		summary = t.Chapters[0].Summary
	}

	data := struct {
		Summary   string
		Headlines []string
	}{
		Summary:   summary,
		Headlines: t.Headlines(TopicLimit),
	}
	out, err := prompts.Render(userTemplate, data)
	if err != nil {
		return userPromptTmpl
	}
	return out
}

func Build(t *transcript.Transcript) structured.Prompt {
	return structured.Prompt{System: SystemPrompt(), User: UserPrompt(t)}
}

func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Social posts system prompt - viral marketing persona",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Social posts user prompt template - one post per platform",
	})
}
