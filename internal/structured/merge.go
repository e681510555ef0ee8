package structured

// Anchor is an authoritative record that merged output is keyed on, such as a
// transcript chapter.
type Anchor struct {
	Index    int
	StartMs  int64
	Headline string
	Summary  string
}

// Seconds returns the anchor start in whole seconds, rounded down.
func (a Anchor) Seconds() int64 {
	if a.StartMs <= 0 {
		return 0
	}
	return a.StartMs / 1000
}

// MergeWithAnchors produces exactly one record per anchor, in anchor order.
// For each anchor, the first item whose index equals the anchor index is
// handed to build (nil when none matched). Items matching no anchor are
// dropped. The result does not depend on item order beyond first-match.
func MergeWithAnchors[A any, R any](items []A, anchors []Anchor, indexOf func(A) int, build func(Anchor, *A) R) []R {
	byIndex := make(map[int]int, len(items))
	for i, item := range items {
		idx := indexOf(item)
		if _, seen := byIndex[idx]; !seen {
			byIndex[idx] = i
		}
	}

	out := make([]R, 0, len(anchors))
	for _, a := range anchors {
		var match *A
		if i, ok := byIndex[a.Index]; ok {
			match = &items[i]
		}
		out = append(out, build(a, match))
	}
	return out
}

// FirstNonEmpty returns the AI-provided value when present, else the anchor's.
func FirstNonEmpty(ai, anchor string) string {
	if ai != "" {
		return ai
	}
	return anchor
}
