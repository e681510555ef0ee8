// Package testutil holds fixtures shared by the server, core and command
// tests: a transcript, a mock LLM that answers every asset prompt, and
// helpers for running a real server on a free port.
package testutil

import (
	"errors"
	"strings"

	"github.com/nagdatt/ai-podcast-saas/internal/providers"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

// Valid responses for each asset prompt.
const (
	SummaryJSON    = `{"full":"An episode about automation.","bullets":["Automate early"],"insights":["Tools compound"],"tldr":"Automate."}`
	TitlesJSON     = `{"youtubeShort":["a","b","c"],"youtubeLong":["d","e","f"],"podcastTitles":["g","h","i"],"seoKeywords":["k1","k2","k3","k4","k5"]}`
	HashtagsJSON   = `{"youtube":["#a","#b","#c","#d","#e"],"instagram":["#a","#b","#c","#d","#e","#f"],"tiktok":["#a","#b","#c","#d","#e"],"linkedin":["#a","#b","#c","#d","#e"],"twitter":["#a","#b","#c","#d","#e"]}`
	SocialJSON     = `{"twitter":"t","linkedin":"l","instagram":"i","tiktok":"k","youtube":"y","facebook":"f"}`
	KeyMomentsJSON = `{"keyMoments":[{"index":0,"text":"Meet the hosts","description":"Hosts introduce the episode."},{"index":1,"text":"Start automating","description":"Pick one task."}]}`
	TimestampsJSON = `{"titles":[{"index":0,"title":"Welcome"},{"index":1,"title":"Automation basics"}]}`
)

// ErrUnrouted is returned by Route for a prompt it does not recognize.
var ErrUnrouted = errors.New("unrouted prompt")

// Route answers each asset prompt by a phrase unique to it.
func Route(req *providers.ChatRequest) (string, error) {
	system, user := req.SystemAndUser()
	switch {
	case strings.Contains(user, "structured JSON summary"):
		return "```json\n" + SummaryJSON + "\n```", nil
	case strings.Contains(user, "Generate optimized titles"):
		return TitlesJSON, nil
	case strings.Contains(system, "hashtag"):
		return HashtagsJSON, nil
	case strings.Contains(user, "promotional posts"):
		return SocialJSON, nil
	case strings.Contains(user, "key moments"):
		return KeyMomentsJSON, nil
	case strings.Contains(user, "SHORT CHAPTER TITLES"):
		return TimestampsJSON, nil
	}
	return "", ErrUnrouted
}

// MockLLM returns a mock client that answers every asset prompt validly.
func MockLLM() *providers.MockClient {
	m := providers.NewMockClient()
	m.Responder = Route
	return m
}

// MockRegistry returns a provider registry holding MockLLM under name.
func MockRegistry(name string) (*providers.Registry, *providers.MockClient) {
	m := MockLLM()
	r := providers.NewRegistry()
	r.RegisterLLM(name, m)
	return r, m
}

// Transcript returns a two-chapter transcript.
func Transcript() *transcript.Transcript {
	return &transcript.Transcript{
		ID:   "tr_1",
		Text: "Welcome to the show. Today we talk about automation.",
		Chapters: []transcript.Chapter{
			{Start: 0, End: 60000, Headline: "Intro", Summary: "Hosts introduce the episode."},
			{Start: 61500, End: 180000, Headline: "Automation basics", Summary: "What to automate first."},
		},
	}
}
