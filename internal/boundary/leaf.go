package boundary

import (
	"strings"
)

// LeafSplitter splits one long paragraph into overlapping, boundary-aware
// leaf fragments. Cut points prefer paragraph breaks, then sentence ends;
// the next fragment starts a little before the previous cut so context
// survives the split.
type LeafSplitter struct {
	maxLength  int
	minOverlap int
	hardCap    int // absolute ceiling on a single fragment
}

// NewLeafSplitter creates a splitter targeting maxLength-sized fragments
// with at least minOverlap characters of overlap, never exceeding hardCap.
func NewLeafSplitter(maxLength, minOverlap, hardCap int) *LeafSplitter {
	if maxLength <= 0 {
		maxLength = 1000
	}
	if minOverlap < 0 {
		minOverlap = 0
	}
	if hardCap <= 0 {
		hardCap = 8000
	}
	return &LeafSplitter{maxLength: maxLength, minOverlap: minOverlap, hardCap: hardCap}
}

// Split covers text with at most maxFragments fragments. Offsets in the
// returned fragments are baseOffset plus the fragment's position in text.
func (s *LeafSplitter) Split(text string, baseOffset, maxFragments int) []Fragment {
	if maxFragments <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.maxLength {
		if f, ok := makeFragment(text, 0, len(text), baseOffset); ok {
			return []Fragment{f}
		}
		return nil
	}

	effMax := s.maxLength + s.maxLength/5
	if effMax > s.hardCap {
		effMax = s.hardCap
	}
	overlap := s.effectiveOverlap(len(text))
	if overlap >= effMax {
		overlap = effMax / 4
	}

	var frags []Fragment
	start := 0
	for start < len(text) && len(frags) < maxFragments {
		end := start + effMax
		if end >= len(text) {
			end = len(text)
		} else {
			end = cutPoint(text, start, end)
		}
		if f, ok := makeFragment(text, start, end, baseOffset); ok {
			frags = append(frags, f)
		}
		if end >= len(text) {
			break
		}
		next := overlapStart(text, end, overlap)
		if next <= start {
			next = start + 1 // guaranteed forward progress
		}
		start = next
	}
	return frags
}

// effectiveOverlap adapts the overlap to the text length: very long inputs
// get a smaller relative overlap to maximize coverage, moderate ones a
// larger overlap to preserve continuity.
func (s *LeafSplitter) effectiveOverlap(n int) int {
	var o int
	switch {
	case n > 20*s.maxLength:
		o = s.maxLength / 20
	case n > 5*s.maxLength:
		o = s.maxLength / 10
	default:
		o = s.maxLength / 5
	}
	if o < s.minOverlap {
		o = s.minOverlap
	}
	if o < 1 {
		o = 1
	}
	return o
}

// cutPoint searches backward from the raw window end for a paragraph break
// past 30% of the window, then for a sentence end past 50%. Falls back to
// the raw end when neither exists.
func cutPoint(text string, start, end int) int {
	window := text[start:end]
	floor := len(window) * 3 / 10
	if i := strings.LastIndex(window[floor:], "\n\n"); i >= 0 {
		return start + floor + i + 2
	}
	if i := LastSentenceEnd(text, start+len(window)/2, end); i > start {
		return i
	}
	return end
}

// overlapStart searches backward from the cut point, within twice the
// overlap, for a sentence end so the next fragment begins on a clean
// boundary; otherwise it backs off by exactly the overlap.
func overlapStart(text string, end, overlap int) int {
	if i := LastSentenceEnd(text, end-2*overlap, end-1); i >= 0 {
		return i
	}
	return end - overlap
}

func makeFragment(text string, start, end, baseOffset int) (Fragment, bool) {
	start, end, ok := TrimSpan(text, start, end)
	if !ok {
		return Fragment{}, false
	}
	return Fragment{
		Content: text[start:end],
		Start:   baseOffset + start,
		End:     baseOffset + end,
	}, true
}
