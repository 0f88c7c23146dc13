// Package boundary implements the text-scanning heuristics behind
// segmentation: section detection, paragraph extraction, leaf-level
// splitting, and bounded previews. All functions operate on byte offsets
// into the text they were given; callers translate them to document-global
// offsets via base offsets.
package boundary

// Section is a coarse titled span of a document.
type Section struct {
	Title   string
	Content string
	Start   int
	End     int
}

// Paragraph is a mid-level span within a section.
type Paragraph struct {
	Content string
	Start   int
	End     int
}

// Fragment is a leaf-level span within a paragraph.
type Fragment struct {
	Content string
	Start   int
	End     int
}

// IsSentenceEnd reports whether the byte at position i ends a sentence:
// '.', '!' or '?' followed by whitespace or the end of the string.
func IsSentenceEnd(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	if c != '.' && c != '!' && c != '?' {
		return false
	}
	if i+1 == len(s) {
		return true
	}
	switch s[i+1] {
	case ' ', '\n', '\t', '\r':
		return true
	}
	return false
}

// LastSentenceEnd returns the index one past the last sentence-ending byte
// in s[lo:hi], or -1 when the range contains none.
func LastSentenceEnd(s string, lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s) {
		hi = len(s)
	}
	for i := hi - 1; i >= lo; i-- {
		if IsSentenceEnd(s, i) {
			return i + 1
		}
	}
	return -1
}

// LastSpace returns the index of the last space or newline in s[lo:hi],
// or -1 when the range contains none.
func LastSpace(s string, lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s) {
		hi = len(s)
	}
	for i := hi - 1; i >= lo; i-- {
		switch s[i] {
		case ' ', '\n', '\t':
			return i
		}
	}
	return -1
}

// TrimSpan shrinks [start,end) in text to exclude leading and trailing
// whitespace. Returns false when nothing but whitespace remains.
func TrimSpan(text string, start, end int) (int, int, bool) {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	for start < end && isSpaceByte(text[start]) {
		start++
	}
	for end > start && isSpaceByte(text[end-1]) {
		end--
	}
	if start >= end {
		return start, end, false
	}
	return start, end, true
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\n', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
