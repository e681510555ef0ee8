package social

import "github.com/nagdatt/ai-podcast-saas/internal/structured"

const StepName = "generate-social-posts"

var platforms = []string{"twitter", "linkedin", "instagram", "tiktok", "youtube", "facebook"}

// OutputSchema is the JSON schema for social posts. Every platform needs a
// non-empty post; there is no length cap per platform.
var OutputSchema = func() map[string]any {
	props := make(map[string]any, len(platforms))
	for _, p := range platforms {
		props[p] = map[string]any{"type": "string", "minLength": 1}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   platforms,
	}
}()

// Result holds one promotional post per platform.
type Result struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
}

func Fallback() Result {
	failed := "⚠️ Error generating social post. Check logs."
	return Result{
		Twitter:   failed,
		LinkedIn:  failed,
		Instagram: failed,
		TikTok:    failed,
		YouTube:   failed,
		Facebook:  failed,
	}
}

var Spec = structured.Spec[Result]{
	Name:     StepName,
	Schema:   structured.MustCompileSchema("social_posts", OutputSchema),
	Fallback: Fallback,
}
