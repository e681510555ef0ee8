package assets

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/nagdatt/ai-podcast-saas/internal/prompts/hashtags"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/keymoments"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/social"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/summary"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/timestamps"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/titles"
)

// Bundle is every generated asset for one transcript.
type Bundle struct {
	KeyMoments        []keymoments.KeyMoment        `json:"keyMoments"`
	Summary           summary.Result                `json:"summary"`
	Social            social.Result                 `json:"social"`
	Titles            titles.Result                 `json:"titles"`
	Hashtags          hashtags.Result               `json:"hashtags"`
	YouTubeTimestamps []timestamps.YouTubeTimestamp `json:"youtubeTimestamps"`

	// Fallbacks lists the kinds that ended in their placeholder value.
	Fallbacks []Kind `json:"fallbacks,omitempty"`
}

// UsedFallback reports whether kind ended in its placeholder value.
func (b *Bundle) UsedFallback(kind Kind) bool {
	return slices.Contains(b.Fallbacks, kind)
}

// SetJSON decodes one kind's value into the bundle. Durable runs produce
// each kind in a separate activity and reassemble them here.
func (b *Bundle) SetJSON(kind Kind, raw json.RawMessage, usedFallback bool) error {
	var target any
	switch kind {
	case KindSummary:
		target = &b.Summary
	case KindTitles:
		target = &b.Titles
	case KindHashtags:
		target = &b.Hashtags
	case KindSocial:
		target = &b.Social
	case KindKeyMoments:
		target = &b.KeyMoments
	case KindYouTubeTimestamps:
		target = &b.YouTubeTimestamps
	default:
		return fmt.Errorf("unknown asset kind: %q", kind)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	if usedFallback && !b.UsedFallback(kind) {
		b.Fallbacks = append(b.Fallbacks, kind)
		b.sortFallbacks()
	}
	return nil
}

func (b *Bundle) sortFallbacks() {
	slices.SortFunc(b.Fallbacks, func(x, y Kind) int {
		return slices.Index(Kinds, x) - slices.Index(Kinds, y)
	})
}
