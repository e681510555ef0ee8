package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type aiMoment struct {
	Index int
	Text  string
}

type merged struct {
	Index int
	Text  string
	Desc  string
}

func fiveAnchors() []Anchor {
	out := make([]Anchor, 5)
	for i := range out {
		out[i] = Anchor{
			Index:    i,
			StartMs:  int64(i) * 61_500,
			Headline: "headline " + string(rune('A'+i)),
			Summary:  "summary " + string(rune('A'+i)),
		}
	}
	return out
}

func mergeMoments(items []aiMoment, anchors []Anchor) []merged {
	return MergeWithAnchors(items, anchors,
		func(m aiMoment) int { return m.Index },
		func(a Anchor, m *aiMoment) merged {
			text := ""
			if m != nil {
				text = m.Text
			}
			return merged{Index: a.Index, Text: FirstNonEmpty(text, a.Headline), Desc: a.Summary}
		})
}

func TestMergeWithAnchors_PartialAI(t *testing.T) {
	got := mergeMoments([]aiMoment{{Index: 2, Text: "AI two"}}, fiveAnchors())

	assert.Len(t, got, 5)
	assert.Equal(t, "AI two", got[2].Text)
	for _, i := range []int{0, 1, 3, 4} {
		assert.Equal(t, fiveAnchors()[i].Headline, got[i].Text)
	}
}

func TestMergeWithAnchors_LengthAlwaysMatchesAnchors(t *testing.T) {
	sets := map[string][]aiMoment{
		"empty":         nil,
		"over complete": {{0, "a"}, {1, "b"}, {2, "c"}, {3, "d"}, {4, "e"}, {5, "f"}, {6, "g"}},
		"duplicates":    {{1, "first"}, {1, "second"}},
		"out of range":  {{-1, "neg"}, {99, "big"}},
	}

	for name, items := range sets {
		t.Run(name, func(t *testing.T) {
			assert.Len(t, mergeMoments(items, fiveAnchors()), 5)
		})
	}
}

func TestMergeWithAnchors_FirstMatchWins(t *testing.T) {
	got := mergeMoments([]aiMoment{{1, "first"}, {1, "second"}}, fiveAnchors())
	assert.Equal(t, "first", got[1].Text)
}

func TestMergeWithAnchors_EmptyAIFieldUsesAnchor(t *testing.T) {
	got := mergeMoments([]aiMoment{{3, ""}}, fiveAnchors())
	assert.Equal(t, "headline D", got[3].Text)
}

func TestMergeWithAnchors_IndependentOfItemOrder(t *testing.T) {
	a := mergeMoments([]aiMoment{{0, "zero"}, {4, "four"}, {2, "two"}}, fiveAnchors())
	b := mergeMoments([]aiMoment{{2, "two"}, {0, "zero"}, {4, "four"}}, fiveAnchors())
	assert.Equal(t, a, b)
}

func TestMergeWithAnchors_PreservesAnchorOrder(t *testing.T) {
	anchors := fiveAnchors()
	anchors[0], anchors[4] = anchors[4], anchors[0]

	got := mergeMoments(nil, anchors)
	assert.Equal(t, 4, got[0].Index)
	assert.Equal(t, 0, got[4].Index)
}

func TestMergeWithAnchors_NoAnchors(t *testing.T) {
	assert.Empty(t, mergeMoments([]aiMoment{{0, "orphan"}}, nil))
}

func TestAnchorSeconds(t *testing.T) {
	assert.Equal(t, int64(61), Anchor{StartMs: 61_999}.Seconds())
	assert.Equal(t, int64(0), Anchor{StartMs: -5}.Seconds())
}
