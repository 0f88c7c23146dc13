package boundary

import (
	"strings"

	"github.com/hyperjump/kizami/pkg/utils"
)

// elision separates the preserved parts of a preview.
const elision = " [...] "

// DefaultMarkers is the marker-word list used by the default salience
// heuristic. Replace it per locale or domain via NewMarkerSalience.
var DefaultMarkers = []string{
	"important", "key", "essential", "critical", "significant",
	"note", "must", "conclusion", "summary",
}

// Salience decides whether a sentence is worth surfacing in a preview.
type Salience interface {
	IsSalient(sentence string) bool
}

// MarkerSalience flags sentences containing any word of a fixed marker list.
type MarkerSalience struct {
	markers []string
}

// NewMarkerSalience creates a MarkerSalience; with no arguments it uses
// DefaultMarkers.
func NewMarkerSalience(markers ...string) *MarkerSalience {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &MarkerSalience{markers: lowered}
}

// IsSalient reports whether the sentence contains a marker word.
func (m *MarkerSalience) IsSalient(sentence string) bool {
	s := strings.ToLower(sentence)
	for _, w := range m.markers {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Previewer produces a bounded, representative excerpt of a block of text:
// context from the start, a heuristically important middle sentence when one
// fits, and the end, joined by an elision marker.
type Previewer struct {
	salience Salience
}

// NewPreviewer creates a Previewer; a nil salience uses the default
// marker-word heuristic.
func NewPreviewer(s Salience) *Previewer {
	if s == nil {
		s = NewMarkerSalience()
	}
	return &Previewer{salience: s}
}

// Preview returns an excerpt of text never exceeding maxLength. Text already
// within the budget is returned as-is.
func (p *Previewer) Preview(text string, maxLength int) string {
	text = strings.TrimSpace(text)
	if maxLength <= 0 {
		return ""
	}
	if len(text) <= maxLength {
		return text
	}

	headBudget := maxLength * 2 / 5
	tailBudget := maxLength * 3 / 10
	head := cleanCut(text, headBudget)
	tail := tailCut(text, tailBudget)

	middle := ""
	if budget := maxLength - len(head) - len(tail) - 2*len(elision); budget > 20 {
		middle = p.salientSentence(text[len(head):len(text)-len(tail)], budget)
	}

	var b strings.Builder
	b.WriteString(head)
	if middle != "" {
		b.WriteString(elision)
		b.WriteString(middle)
	}
	b.WriteString(elision)
	b.WriteString(tail)
	out := b.String()
	if len(out) > maxLength {
		out = out[:maxLength]
	}
	return out
}

// salientSentence returns the first sentence in s the salience heuristic
// flags that fits the budget, whitespace-collapsed.
func (p *Previewer) salientSentence(s string, budget int) string {
	start := 0
	for i := 0; i < len(s); i++ {
		if !IsSentenceEnd(s, i) {
			continue
		}
		sentence := strings.TrimSpace(s[start : i+1])
		start = i + 1
		if sentence == "" || len(sentence) > budget {
			continue
		}
		if p.salience.IsSalient(sentence) {
			return utils.CollapseWhitespace(sentence)
		}
	}
	return ""
}

// cleanCut returns a prefix of text within budget, preferring a sentence
// end, then a space, over a hard cut.
func cleanCut(text string, budget int) string {
	if budget >= len(text) {
		return text
	}
	if budget <= 0 {
		return ""
	}
	if i := LastSentenceEnd(text, budget/2, budget); i > 0 {
		return text[:i]
	}
	if i := LastSpace(text, budget/2, budget); i > 0 {
		return text[:i]
	}
	return text[:budget]
}

// tailCut returns a suffix of text within budget, starting at a word
// boundary when one exists.
func tailCut(text string, budget int) string {
	if budget >= len(text) {
		return text
	}
	if budget <= 0 {
		return ""
	}
	tail := text[len(text)-budget:]
	if i := strings.IndexAny(tail, " \n"); i >= 0 && i+1 < len(tail) {
		tail = tail[i+1:]
	}
	return tail
}
