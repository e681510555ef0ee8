package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_FencedWithProse(t *testing.T) {
	raw := "Here you go:\n```json\n{\"a\":1}\n```"

	doc, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, doc)
}

func TestExtractJSON_UppercaseFence(t *testing.T) {
	doc, err := ExtractJSON("```JSON\n{\"ok\":true}\n```")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, doc)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := `Sure! The result is {"titles":[{"index":0,"title":"Intro"}]} hope that helps.`

	doc, err := ExtractJSON(raw)
	require.NoError(t, err)

	m, ok := doc.(map[string]any)
	require.True(t, ok)
	titles, ok := m["titles"].([]any)
	require.True(t, ok)
	assert.Len(t, titles, 1)
}

func TestExtractJSON_NestedObjects(t *testing.T) {
	doc, err := ExtractJSON(`{"outer":{"inner":{"x":"y"}}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"outer": map[string]any{"inner": map[string]any{"x": "y"}},
	}, doc)
}

func TestExtractJSON_NotFound(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"prose only":     "I could not generate that, sorry.",
		"array only":     `["#a", "#b"]`,
		"reversed":       "} nothing {",
		"fence only":     "```json\n```",
		"malformed":      `{"a": 1,}`,
		"truncated":      `{"a": [1, 2`,
		"two objects":    `{"a":1} and {"b":2}`,
		"unquoted brace": `{"a": "x"} trailing }`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := ExtractJSON(raw)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	// Balanced braces inside string values survive the greedy match.
	doc, err := ExtractJSON(`{"text":"use {curly} braces"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "use {curly} braces"}, doc)
}

func TestExtractJSON_OnlyFirstJSONMarkerRemoved(t *testing.T) {
	// A second "```json" loses its backticks but keeps the word, which sits
	// outside the braces and does not matter.
	doc, err := ExtractJSON("```json\n{\"a\":1}\n```json")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, doc)
}
