package boundary

import (
	"strings"
)

const (
	// largeSectionFloor is the content size above which sparse blank-line
	// blocks are re-derived from sentence boundaries.
	largeSectionFloor = 5_000
	// minSentenceCount is the fewest sentences worth packing; below it the
	// extractor falls back to fixed-size slicing.
	minSentenceCount = 3
)

// span is a half-open byte range within one section's content.
type span struct {
	start, end int
}

// ParagraphExtractor splits one section's content into paragraphs sized near
// an ideal length derived from the content size. Offsets in the returned
// paragraphs are document-global (content-local offset plus baseOffset).
type ParagraphExtractor struct{}

// NewParagraphExtractor creates a new ParagraphExtractor.
func NewParagraphExtractor() *ParagraphExtractor {
	return &ParagraphExtractor{}
}

// Extract returns ordered paragraphs for content. Every paragraph's Content
// is an exact substring of content at [Start-baseOffset, End-baseOffset).
// Whitespace-only content yields no paragraphs.
func (e *ParagraphExtractor) Extract(content string, baseOffset, maxParagraphs int) []Paragraph {
	if maxParagraphs <= 0 {
		maxParagraphs = 1
	}
	if strings.TrimSpace(content) == "" {
		return nil
	}

	ideal := idealParagraphLength(len(content))
	spans := blankLineSpans(content)
	if len(spans) < 2 && len(content) > largeSectionFloor {
		spans = sentenceSpans(content, ideal)
	}
	spans = mergeShortSpans(spans, ideal)
	spans = trimSpans(content, spans)
	if len(spans) > maxParagraphs {
		spans = spans[:maxParagraphs]
	}
	if len(spans) == 0 {
		start, end, ok := TrimSpan(content, 0, len(content))
		if !ok {
			return nil
		}
		return []Paragraph{{Content: content[start:end], Start: baseOffset + start, End: baseOffset + end}}
	}

	out := make([]Paragraph, 0, len(spans))
	for _, sp := range spans {
		out = append(out, Paragraph{
			Content: content[sp.start:sp.end],
			Start:   baseOffset + sp.start,
			End:     baseOffset + sp.end,
		})
	}
	return out
}

// idealParagraphLength scales the target paragraph size to the content:
// 500-2000 chars for large sections, 300-1000 for smaller ones.
func idealParagraphLength(n int) int {
	if n > 10_000 {
		return clamp(n/10, 500, 2000)
	}
	return clamp(n/5, 300, 1000)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// blankLineSpans splits content on blank-line-separated blocks. Offsets are
// resolved by locating each block with a monotonic forward scan that never
// backtracks before the previous match's end.
func blankLineSpans(content string) []span {
	var spans []span
	searchFrom := 0
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		idx := strings.Index(content[searchFrom:], block)
		if idx < 0 {
			continue
		}
		start := searchFrom + idx
		spans = append(spans, span{start, start + len(block)})
		searchFrom = start + len(block)
	}
	return spans
}

// sentenceSpans re-derives blocks from sentence boundaries. When sentences
// are themselves too scarce it slices at fixed offsets snapped to nearby
// sentence-ending punctuation; otherwise it greedily packs consecutive
// sentences up to the ideal length.
func sentenceSpans(content string, ideal int) []span {
	ends := sentenceEnds(content)
	if len(ends) < minSentenceCount {
		return fixedSpans(content, ideal)
	}

	var spans []span
	start := 0
	for _, e := range ends {
		if e-start >= ideal {
			spans = append(spans, span{start, e})
			start = e
		}
	}
	if start < len(content) {
		spans = append(spans, span{start, len(content)})
	}
	return spans
}

// sentenceEnds returns positions one past each sentence-ending byte.
func sentenceEnds(content string) []int {
	var ends []int
	for i := 0; i < len(content); i++ {
		if IsSentenceEnd(content, i) {
			ends = append(ends, i+1)
		}
	}
	return ends
}

// fixedSpans slices content every ideal characters, snapping each cut back
// to sentence-ending punctuation in the second half of the slice when any
// exists.
func fixedSpans(content string, ideal int) []span {
	var spans []span
	cur := 0
	for cur < len(content) {
		end := cur + ideal
		if end >= len(content) {
			end = len(content)
		} else if i := LastSentenceEnd(content, cur+ideal/2, end); i > cur {
			end = i
		}
		spans = append(spans, span{cur, end})
		cur = end
	}
	return spans
}

// mergeShortSpans folds short blocks into their successor, up to 1.5x the
// ideal length, to avoid fragment explosion.
func mergeShortSpans(spans []span, ideal int) []span {
	limit := ideal + ideal/2
	var out []span
	for _, sp := range spans {
		if n := len(out); n > 0 {
			last := out[n-1]
			if last.end-last.start < ideal/2 && sp.end-last.start <= limit {
				out[n-1].end = sp.end
				continue
			}
		}
		out = append(out, sp)
	}
	return out
}

// trimSpans shrinks each span to exclude surrounding whitespace and drops
// spans that contained nothing else.
func trimSpans(content string, spans []span) []span {
	out := spans[:0]
	for _, sp := range spans {
		start, end, ok := TrimSpan(content, sp.start, sp.end)
		if !ok {
			continue
		}
		out = append(out, span{start, end})
	}
	return out
}
