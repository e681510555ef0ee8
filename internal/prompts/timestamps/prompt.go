package timestamps

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

const (
	SystemPromptKey = "assets.timestamps.system"
	UserPromptKey   = "assets.timestamps.user"
)

func SystemPrompt() string {
	return systemPrompt
}

func UserPrompt(anchors []structured.Anchor) string {
	data := struct{ Anchors []structured.Anchor }{Anchors: anchors}
	out, err := prompts.Render(userTemplate, data)
	if err != nil {
		return userPromptTmpl
	}
	return out
}

func Build(anchors []structured.Anchor) structured.Prompt {
	return structured.Prompt{System: SystemPrompt(), User: UserPrompt(anchors)}
}

func RegisterPrompts(r *prompts.Registry) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "YouTube timestamps system prompt - chapter title persona",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "YouTube timestamps user prompt template - short chapter titles",
	})
}
