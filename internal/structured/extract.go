package structured

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonFenceOpener = regexp.MustCompile("(?i)```json")

// ExtractJSON recovers a single JSON object from free-form model output.
//
// The first case-insensitive "```json" marker and every "```" are removed,
// then the text from the first "{" through the last "}" is parsed. This is a
// greedy heuristic, not a parser: it assumes the model emitted one top-level
// object. Output holding two separate objects, or a truncated object followed
// by a later "}", yields ErrNotFound rather than a partial document.
func ExtractJSON(raw string) (any, error) {
	cleaned := jsonFenceOpener.ReplaceAllStringFunc(raw, replaceFirst())
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no brace-delimited block", ErrNotFound)
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return doc, nil
}

// replaceFirst returns a ReplaceAllStringFunc callback that blanks only the
// first match.
func replaceFirst() func(string) string {
	done := false
	return func(m string) string {
		if done {
			return m
		}
		done = true
		return ""
	}
}
