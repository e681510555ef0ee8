package hashtags

import "github.com/nagdatt/ai-podcast-saas/internal/structured"

const StepName = "generate-hashtags"

// Per-platform cardinality.
const (
	YouTubeCount  = 5
	InstagramMin  = 6
	InstagramMax  = 8
	TikTokMin     = 5
	TikTokMax     = 6
	LinkedInCount = 5
	TwitterCount  = 5
)

func tagList(min, max int) map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":    "string",
			"pattern": "^#",
		},
		"minItems": min,
		"maxItems": max,
	}
}

// OutputSchema is the JSON schema for hashtag sets.
var OutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"youtube":   tagList(YouTubeCount, YouTubeCount),
		"instagram": tagList(InstagramMin, InstagramMax),
		"tiktok":    tagList(TikTokMin, TikTokMax),
		"linkedin":  tagList(LinkedInCount, LinkedInCount),
		"twitter":   tagList(TwitterCount, TwitterCount),
	},
	"required": []string{"youtube", "instagram", "tiktok", "linkedin", "twitter"},
}

// Result maps each platform to its hashtags.
type Result struct {
	YouTube   []string `json:"youtube"`
	Instagram []string `json:"instagram"`
	TikTok    []string `json:"tiktok"`
	LinkedIn  []string `json:"linkedin"`
	Twitter   []string `json:"twitter"`
}

// FailedTag marks placeholder hashtags. It starts with "#" so the fallback
// validates like any generated set.
const FailedTag = "#HashtagGenerationFailed"

func Fallback() Result {
	return Result{
		YouTube:   repeat(FailedTag, YouTubeCount),
		Instagram: repeat(FailedTag, InstagramMin),
		TikTok:    repeat(FailedTag, TikTokMin),
		LinkedIn:  repeat(FailedTag, LinkedInCount),
		Twitter:   repeat(FailedTag, TwitterCount),
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
	Schema:   structured.MustCompileSchema("hashtags", OutputSchema),
	Fallback: Fallback,
}
