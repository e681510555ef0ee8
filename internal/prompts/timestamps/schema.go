package timestamps

import (
	"strings"

	"github.com/nagdatt/ai-podcast-saas/internal/structured"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

const StepName = "generate-youtube-timestamps"

// OutputSchema constrains the model's chapter titles.
var OutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"titles": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"index": map[string]any{"type": "integer"},
					"title": map[string]any{"type": "string"},
				},
				"required": []string{"index"},
			},
		},
	},
	"required": []string{"titles"},
}

// Title is a short chapter title keyed by chapter index.
type Title struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

type Result struct {
	Titles []Title `json:"titles"`
}

func Fallback() Result {
	return Result{Titles: []Title{}}
}

var Spec = structured.Spec[Result]{
	Name:     StepName,
	Schema:   structured.MustCompileSchema("youtube_timestamps", OutputSchema),
	Fallback: Fallback,
}

// YouTubeTimestamp is one line of a YouTube description chapter list.
type YouTubeTimestamp struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

// Merge produces one timestamp per anchor. Hours are only shown when non-zero.
func Merge(anchors []structured.Anchor, ai Result) []YouTubeTimestamp {
	return structured.MergeWithAnchors(ai.Titles, anchors,
		func(t Title) int { return t.Index },
		func(a structured.Anchor, t *Title) YouTubeTimestamp {
			desc := a.Headline
			if t != nil {
				desc = structured.FirstNonEmpty(t.Title, a.Headline)
			}
			return YouTubeTimestamp{
				Timestamp:   transcript.FormatTimestamp(a.Seconds(), transcript.FormatOptions{}),
				Description: desc,
			}
		})
}

// Description renders timestamps one per line, ready to paste into a YouTube
// video description.
func Description(ts []YouTubeTimestamp) string {
	var b strings.Builder
	for i, t := range ts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Timestamp)
		b.WriteByte(' ')
		b.WriteString(t.Description)
	}
	return b.String()
}
