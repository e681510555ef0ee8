package assets

import (
	"fmt"

	"github.com/nagdatt/ai-podcast-saas/internal/prompts/hashtags"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/keymoments"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/social"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/summary"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/timestamps"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/titles"
)

// Kind identifies one generated asset. Values match the job status field
// names the UI polls.
type Kind string

const (
	KindSummary           Kind = "summary"
	KindTitles            Kind = "titles"
	KindHashtags          Kind = "hashtags"
	KindSocial            Kind = "social"
	KindKeyMoments        Kind = "keyMoments"
	KindYouTubeTimestamps Kind = "youtubeTimestamps"
)

// Kinds lists every asset in generation order.
var Kinds = []Kind{
	KindKeyMoments,
	KindSummary,
	KindSocial,
	KindTitles,
	KindHashtags,
	KindYouTubeTimestamps,
}

// ParseKind accepts a kind name or its step name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s || k.StepName() == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown asset kind: %q", s)
}

// StepName returns the durable step name the kind runs under.
func (k Kind) StepName() string {
	switch k {
	case KindSummary:
		return summary.StepName
	case KindTitles:
		return titles.StepName
	case KindHashtags:
		return hashtags.StepName
	case KindSocial:
		return social.StepName
	case KindKeyMoments:
		return keymoments.StepName
	case KindYouTubeTimestamps:
		return timestamps.StepName
	default:
		return ""
	}
}

// promptKeys returns the system and user prompt keys of a kind.
func (k Kind) promptKeys() (system, user string) {
	switch k {
	case KindSummary:
		return summary.SystemPromptKey, summary.UserPromptKey
	case KindTitles:
		return titles.SystemPromptKey, titles.UserPromptKey
	case KindHashtags:
		return hashtags.SystemPromptKey, hashtags.UserPromptKey
	case KindSocial:
		return social.SystemPromptKey, social.UserPromptKey
	case KindKeyMoments:
		return keymoments.SystemPromptKey, keymoments.UserPromptKey
	case KindYouTubeTimestamps:
		return timestamps.SystemPromptKey, timestamps.UserPromptKey
	default:
		return "", ""
	}
}
