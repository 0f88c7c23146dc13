package boundary

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperjump/kizami/pkg/utils"
)

const (
	// patternScanCap bounds the prefix scanned for title patterns.
	patternScanCap = 2_000_000
	// minSectionLength is the smallest span kept as its own section.
	minSectionLength = 50
	// unstructuredFloor is the text size above which artificial block
	// division kicks in for text without natural separators.
	unstructuredFloor = 100_000
	// minBlockSize is the smallest artificial block.
	minBlockSize = 50_000
	// titleMaxLen bounds section titles.
	titleMaxLen = 100
)

var (
	headingPattern   = regexp.MustCompile(`(?m)^#{1,6}[ \t]+\S.*$`)
	underlinePattern = regexp.MustCompile(`(?m)^[^\n]{1,100}\n(?:={3,}|-{3,})[ \t]*$`)
	capLinePattern   = regexp.MustCompile(`(?m)^[ \t]*\n([A-Z][^\n]{1,79})\n`)
	separatorPattern = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
	blankCapPattern  = regexp.MustCompile(`\n[ \t]*\n[A-Z]`)
)

// candidate is a potential section boundary. An empty title means the title
// is derived from the section's first non-empty line.
type candidate struct {
	pos   int
	title string
}

// SectionDetector splits full text into coarse titled sections using layered
// heuristics: title patterns, natural separators, artificial block division,
// and finally a whole-document fallback. Candidates from all layers feed a
// single ordered, position-deduplicated construction pass.
type SectionDetector struct {
	largeTextThreshold int // above this, the pattern scan is skipped entirely
}

// NewSectionDetector creates a detector. largeTextThreshold bounds the
// pattern-title scan; pass 0 to disable the shortcut.
func NewSectionDetector(largeTextThreshold int) *SectionDetector {
	return &SectionDetector{largeTextThreshold: largeTextThreshold}
}

// Detect returns ordered, non-overlapping sections covering all of text.
func (d *SectionDetector) Detect(text string, maxSections int) []Section {
	if maxSections <= 0 {
		maxSections = 1
	}
	if strings.TrimSpace(text) == "" {
		return []Section{{Title: "Document", Content: text, Start: 0, End: len(text)}}
	}

	var cands []candidate
	if d.largeTextThreshold <= 0 || len(text) <= d.largeTextThreshold {
		cands = patternCandidates(text)
	}
	if len(cands) < maxSections/2 {
		cands = append(cands, separatorCandidates(text, len(cands), maxSections)...)
	}
	if len(cands) < 2 && len(text) > unstructuredFloor {
		cands = append(cands, blockCandidates(text, maxSections)...)
	}
	if len(cands) == 0 {
		return []Section{wholeDocument(text)}
	}

	cands = dedupCandidates(cands)
	cands = sampleCandidates(cands, maxSections)
	return buildSections(text, cands)
}

// patternCandidates finds heading-style boundaries in a capped prefix of text.
func patternCandidates(text string) []candidate {
	limit := len(text)
	if limit > patternScanCap {
		limit = patternScanCap
	}
	prefix := text[:limit]

	var cands []candidate
	for _, loc := range headingPattern.FindAllStringIndex(prefix, -1) {
		line := prefix[loc[0]:loc[1]]
		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		cands = append(cands, candidate{pos: loc[0], title: title})
	}
	for _, loc := range underlinePattern.FindAllStringIndex(prefix, -1) {
		m := prefix[loc[0]:loc[1]]
		title := m
		if nl := strings.IndexByte(m, '\n'); nl >= 0 {
			title = m[:nl]
		}
		cands = append(cands, candidate{pos: loc[0], title: strings.TrimSpace(title)})
	}
	for _, loc := range capLinePattern.FindAllStringSubmatchIndex(prefix, -1) {
		title := prefix[loc[2]:loc[3]]
		if !titleLike(title) {
			continue
		}
		cands = append(cands, candidate{pos: loc[2], title: strings.TrimSpace(title)})
	}
	return cands
}

// titleLike filters capitalized-line candidates: short, no terminal period,
// not too many words.
func titleLike(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasSuffix(line, ".") || strings.HasSuffix(line, ",") {
		return false
	}
	return len(strings.Fields(line)) <= 12
}

// separatorCandidates finds natural boundaries: runs of two or more blank
// lines, and (only when those are still sparse) a blank line followed by a
// capital letter.
func separatorCandidates(text string, existing, maxSections int) []candidate {
	var cands []candidate
	for _, loc := range separatorPattern.FindAllStringIndex(text, -1) {
		cands = append(cands, candidate{pos: loc[1]})
	}
	if existing+len(cands) < maxSections/2 {
		for _, loc := range blankCapPattern.FindAllStringIndex(text, -1) {
			cands = append(cands, candidate{pos: loc[1] - 1})
		}
	}
	return cands
}

// blockCandidates synthesizes boundaries every blockSize characters for
// large unstructured text, snapped to the next line break.
func blockCandidates(text string, maxSections int) []candidate {
	blockSize := len(text) / maxSections
	if blockSize < minBlockSize {
		blockSize = minBlockSize
	}
	var cands []candidate
	for pos := blockSize; pos < len(text); pos += blockSize {
		nl := strings.IndexByte(text[pos:], '\n')
		if nl < 0 {
			break
		}
		cands = append(cands, candidate{pos: pos + nl + 1})
	}
	return cands
}

func dedupCandidates(cands []candidate) []candidate {
	sort.Slice(cands, func(i, j int) bool { return cands[i].pos < cands[j].pos })
	out := cands[:0]
	for _, c := range cands {
		if n := len(out); n > 0 && out[n-1].pos == c.pos {
			// Prefer a candidate that carries an explicit title.
			if out[n-1].title == "" && c.title != "" {
				out[n-1] = c
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// sampleCandidates thins an oversized candidate list evenly so sections keep
// covering the whole document instead of clustering at the start.
func sampleCandidates(cands []candidate, maxSections int) []candidate {
	if len(cands) <= maxSections {
		return cands
	}
	out := make([]candidate, 0, maxSections)
	step := float64(len(cands)) / float64(maxSections)
	prev := -1
	for i := 0; i < maxSections; i++ {
		idx := int(float64(i) * step)
		if idx == prev {
			continue
		}
		out = append(out, cands[idx])
		prev = idx
	}
	return out
}

// buildSections turns ordered boundary candidates into contiguous sections
// covering the whole text, merging away spans shorter than minSectionLength
// (except the last) and prepending an Introduction for a leading span.
func buildSections(text string, cands []candidate) []Section {
	if cands[0].pos > 0 {
		if cands[0].pos > minSectionLength {
			cands = append([]candidate{{pos: 0, title: "Introduction"}}, cands...)
		} else {
			// Tiny leading span folds into the first section.
			cands[0].pos = 0
		}
	}

	secs := make([]Section, 0, len(cands))
	for i, c := range cands {
		end := len(text)
		if i+1 < len(cands) {
			end = cands[i+1].pos
		}
		if end <= c.pos {
			continue
		}
		secs = append(secs, Section{Title: c.title, Start: c.pos, End: end})
	}

	// Merge short sections into their successor.
	merged := make([]Section, 0, len(secs))
	for i := 0; i < len(secs); i++ {
		s := secs[i]
		if s.End-s.Start < minSectionLength && i+1 < len(secs) {
			secs[i+1].Start = s.Start
			if secs[i+1].Title == "" {
				secs[i+1].Title = s.Title
			}
			continue
		}
		merged = append(merged, s)
	}

	for i := range merged {
		merged[i].Content = text[merged[i].Start:merged[i].End]
		if merged[i].Title == "" {
			merged[i].Title = firstLineTitle(merged[i].Content)
		}
		if merged[i].Title == "" {
			merged[i].Title = fmt.Sprintf("Section %d", i+1)
		}
		merged[i].Title = utils.Truncate(merged[i].Title, titleMaxLen)
	}
	return merged
}

func wholeDocument(text string) Section {
	title := firstLineTitle(text)
	if title == "" {
		title = "Document"
	}
	return Section{
		Title:   utils.Truncate(title, titleMaxLen),
		Content: text,
		Start:   0,
		End:     len(text),
	}
}

// firstLineTitle returns the first non-empty line of content, trimmed.
func firstLineTitle(content string) string {
	for len(content) > 0 {
		line := content
		if nl := strings.IndexByte(content, '\n'); nl >= 0 {
			line, content = content[:nl], content[nl+1:]
		} else {
			content = ""
		}
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
