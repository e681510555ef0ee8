package hashtags

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
	SystemPromptKey = "assets.hashtags.system"
	UserPromptKey   = "assets.hashtags.user"
)

func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt lists the chapter headlines, or "General discussion" when the
// transcript has no chapters.
func UserPrompt(t *transcript.Transcript) string {
	data := struct{ Headlines []string }{Headlines: t.Headlines(0)}
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
		Description: "Hashtags system prompt - social media growth persona",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Hashtags user prompt template - per-platform hashtag sets",
	})
}
