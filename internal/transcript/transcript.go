// Package transcript holds the finished-transcript input that asset
// generation works from. Transcription itself happens upstream; a transcript
// arrives as text plus auto-detected chapters with millisecond offsets.
package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nagdatt/ai-podcast-saas/internal/structured"
)

// MaxYouTubeChapters caps how many chapters become YouTube timestamps.
const MaxYouTubeChapters = 100

// Chapter is an auto-detected topic segment.
type Chapter struct {
	Start    int64  `json:"start"` // milliseconds
	End      int64  `json:"end"`   // milliseconds
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Gist     string `json:"gist,omitempty"`
}

// Transcript is a finished transcription.
type Transcript struct {
	ID            string    `json:"id,omitempty"`
	Text          string    `json:"text"`
	AudioDuration float64   `json:"audio_duration,omitempty"` // seconds
	Chapters      []Chapter `json:"chapters"`
}

// Load reads a transcript JSON document.
func Load(r io.Reader) (*Transcript, error) {
	var t Transcript
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads a transcript JSON file.
func LoadFile(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the minimum a transcript needs to be usable.
func (t *Transcript) Validate() error {
	if t == nil {
		return fmt.Errorf("transcript is required")
	}
	if t.Text == "" && len(t.Chapters) == 0 {
		return fmt.Errorf("transcript has neither text nor chapters")
	}
	return nil
}

// Anchors converts chapters into merge anchors, indexed by position. A limit
// of zero or less means all chapters.
func (t *Transcript) Anchors(limit int) []structured.Anchor {
	chapters := t.Chapters
	if limit > 0 && len(chapters) > limit {
		chapters = chapters[:limit]
	}
	out := make([]structured.Anchor, len(chapters))
	for i, ch := range chapters {
		out[i] = structured.Anchor{
			Index:    i,
			StartMs:  ch.Start,
			Headline: ch.Headline,
			Summary:  ch.Summary,
		}
	}
	return out
}

// Headlines returns up to limit chapter headlines (all when limit <= 0).
func (t *Transcript) Headlines(limit int) []string {
	var out []string
	for i, ch := range t.Chapters {
		if limit > 0 && i >= limit {
			break
		}
		out = append(out, ch.Headline)
	}
	return out
}

// Preview returns the first n characters of the transcript text.
func (t *Transcript) Preview(n int) string {
	r := []rune(t.Text)
	if len(r) <= n {
		return t.Text
	}
	return string(r[:n])
}
