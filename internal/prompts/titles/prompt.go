package titles

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
const PreviewChars = 2000

const (
	SystemPromptKey = "assets.titles.system"
	UserPromptKey   = "assets.titles.user"
)

func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for title generation.
func UserPrompt(t *transcript.Transcript) string {
	data := struct {
		Preview   string
		Headlines []string
	}{
		Preview:   t.Preview(PreviewChars),
		Headlines: t.Headlines(0),
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
		Description: "Titles system prompt - SEO and viral content persona",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Titles user prompt template - YouTube, podcast titles and SEO keywords",
	})
}
