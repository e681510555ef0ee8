package keymoments

import (
	"github.com/nagdatt/ai-podcast-saas/internal/structured"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

const StepName = "generate-key-moments"

// OutputSchema constrains the model's per-chapter enhancements. Only the
// index is required; missing text falls back to the chapter's own fields.
var OutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"keyMoments": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"index":       map[string]any{"type": "integer"},
					"text":        map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
				"required": []string{"index"},
			},
		},
	},
	"required": []string{"keyMoments"},
}

// Moment is one AI-enhanced chapter.
type Moment struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

// Result is the raw model output.
type Result struct {
	KeyMoments []Moment `json:"keyMoments"`
}

// Fallback carries no enhancements, so every chapter keeps its own headline
// and summary after merging.
func Fallback() Result {
	return Result{KeyMoments: []Moment{}}
}

var Spec = structured.Spec[Result]{
	Name:     StepName,
	Schema:   structured.MustCompileSchema("key_moments", OutputSchema),
	Fallback: Fallback,
}

// KeyMoment is a navigable highlight anchored on a chapter start.
type KeyMoment struct {
	Time        string `json:"time"`      // HH:MM:SS
	Timestamp   int64  `json:"timestamp"` // seconds
	Text        string `json:"text"`
	Description string `json:"description"`
}

// TimeFormat always shows zero-padded hours.
var TimeFormat = transcript.FormatOptions{PadHours: true, ForceHours: true}

// Merge produces one key moment per anchor, preferring non-empty AI text.
func Merge(anchors []structured.Anchor, ai Result) []KeyMoment {
	return structured.MergeWithAnchors(ai.KeyMoments, anchors,
		func(m Moment) int { return m.Index },
		func(a structured.Anchor, m *Moment) KeyMoment {
			km := KeyMoment{
				Time:        transcript.FormatTimestamp(a.Seconds(), TimeFormat),
				Timestamp:   a.Seconds(),
				Text:        a.Headline,
				Description: a.Summary,
			}
			if m != nil {
				km.Text = structured.FirstNonEmpty(m.Text, a.Headline)
				km.Description = structured.FirstNonEmpty(m.Description, a.Summary)
			}
			return km
		})
}
