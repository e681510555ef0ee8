package titles

import "github.com/nagdatt/ai-podcast-saas/internal/structured"

const StepName = "generate-titles"

func stringList(min, max int) map[string]any {
	return map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string", "minLength": 1},
		"minItems": min,
		"maxItems": max,
	}
}

// OutputSchema is the JSON schema for title suggestions.
var OutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"youtubeShort":  stringList(3, 3),
		"youtubeLong":   stringList(3, 3),
		"podcastTitles": stringList(3, 3),
		"seoKeywords":   stringList(5, 10),
	},
	"required": []string{"youtubeShort", "youtubeLong", "podcastTitles", "seoKeywords"},
}

// Result holds title suggestions per surface.
type Result struct {
	YouTubeShort  []string `json:"youtubeShort"`
	YouTubeLong   []string `json:"youtubeLong"`
	PodcastTitles []string `json:"podcastTitles"`
	SEOKeywords   []string `json:"seoKeywords"`
}

// Fallback is returned whenever generation fails. Lists are padded to the
// schema minimums so the placeholder itself validates.
func Fallback() Result {
	failed := "⚠️ Title generation failed"
	return Result{
		YouTubeShort:  repeat(failed, 3),
		YouTubeLong:   repeat(failed, 3),
		PodcastTitles: repeat(failed, 3),
		SEOKeywords:   repeat("error", 5),
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

var Spec = structured.Spec[Result]{
	Name:     StepName,
	Schema:   structured.MustCompileSchema("titles", OutputSchema),
	Fallback: Fallback,
}
