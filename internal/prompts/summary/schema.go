package summary

import "github.com/nagdatt/ai-podcast-saas/internal/structured"

// StepName identifies the summary step in workflows and call records.
const StepName = "generate-summary"

// OutputSchema is the JSON schema for summary output.
var OutputSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"full": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "200-300 word overview",
		},
		"bullets": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": 1,
		},
		"insights": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": 1,
		},
		"tldr": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
	},
	"required": []string{"full", "bullets", "insights", "tldr"},
}

// Result is a multi-format episode summary.
type Result struct {
	Full     string   `json:"full"`
	Bullets  []string `json:"bullets"`
	Insights []string `json:"insights"`
	TLDR     string   `json:"tldr"`
}

// Fallback is returned whenever generation fails.
func Fallback() Result {
	return Result{
		Full:     "⚠️ Error generating summary. Please check logs.",
		Bullets:  []string{"Summary generation failed - see transcript"},
		Insights: []string{"No insights available due to error"},
		TLDR:     "Summary generation failed",
	}
}

// Spec is the pipeline definition for summaries.
var Spec = structured.Spec[Result]{
	Name:     StepName,
	Schema:   structured.MustCompileSchema("summary", OutputSchema),
	Fallback: Fallback,
}
