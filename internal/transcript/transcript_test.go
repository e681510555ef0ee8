package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "id": "tr_1",
  "text": "Welcome to the show. Today we talk about automation.",
  "chapters": [
    {"start": 0, "end": 61000, "headline": "Welcome", "summary": "Host intro"},
    {"start": 61999, "end": 3725000, "headline": "Automation", "summary": "Tools and setup"}
  ]
}`

func TestLoad(t *testing.T) {
	tr, err := Load(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	assert.Equal(t, "tr_1", tr.ID)
	require.Len(t, tr.Chapters, 2)
	assert.Equal(t, int64(61999), tr.Chapters[1].Start)
}

func TestLoad_Rejects(t *testing.T) {
	_, err := Load(strings.NewReader(`{"text":"","chapters":[]}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestAnchors(t *testing.T) {
	tr, err := Load(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	anchors := tr.Anchors(0)
	require.Len(t, anchors, 2)
	assert.Equal(t, 1, anchors[1].Index)
	assert.Equal(t, int64(61), anchors[1].Seconds())
	assert.Equal(t, "Tools and setup", anchors[1].Summary)

	assert.Len(t, tr.Anchors(1), 1)
}

func TestAnchors_Cap(t *testing.T) {
	tr := &Transcript{Text: "x", Chapters: make([]Chapter, MaxYouTubeChapters+20)}
	assert.Len(t, tr.Anchors(MaxYouTubeChapters), MaxYouTubeChapters)
}

func TestHeadlinesAndPreview(t *testing.T) {
	tr, err := Load(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"Welcome"}, tr.Headlines(1))
	assert.Equal(t, []string{"Welcome", "Automation"}, tr.Headlines(0))
	assert.Equal(t, "Welcome", tr.Preview(7))
	assert.Equal(t, tr.Text, tr.Preview(10_000))
}

func TestFormatTimestamp(t *testing.T) {
	long := FormatOptions{PadHours: true, ForceHours: true}

	tests := []struct {
		seconds int64
		opts    FormatOptions
		want    string
	}{
		{0, FormatOptions{}, "0:00"},
		{75, FormatOptions{}, "1:15"},
		{600, FormatOptions{}, "10:00"},
		{3725, FormatOptions{}, "1:02:05"},
		{0, long, "00:00:00"},
		{75, long, "00:01:15"},
		{3725, long, "01:02:05"},
		{36000, long, "10:00:00"},
		{75, FormatOptions{ForceHours: true}, "0:01:15"},
		{-3, FormatOptions{}, "0:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.seconds, tt.opts), "seconds=%d opts=%+v", tt.seconds, tt.opts)
	}
}
