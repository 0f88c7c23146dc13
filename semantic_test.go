package kizami

import (
	"strings"
	"testing"
)

// sentences returns n distinct sentences so dedup never collapses them.
func sentences(n int, seed string) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("The ")
		b.WriteString(seed)
		b.WriteString(" pipeline processed record number ")
		for j := 0; j <= i%7; j++ {
			b.WriteByte(byte('0' + (i+j)%10))
		}
		b.WriteString(" without any issue. ")
	}
	return b.String()
}

func structuredDoc() string {
	var b strings.Builder
	b.WriteString("# Overview\n\n")
	b.WriteString(sentences(60, "intake"))
	b.WriteString("\n\n# Details\n\n")
	// Large enough that its paragraphs exceed the leaf threshold.
	b.WriteString(sentences(220, "transform"))
	b.WriteString("\n\nA short closing remark that stands alone as its own paragraph.\n")
	return b.String()
}

func TestSemantic_EmitsAllHierarchyLevels(t *testing.T) {
	text := structuredDoc()
	s := New(DefaultConfig())
	chunks := s.SegmentAll(text, 500)
	validateTree(t, chunks, len(text), s.cfg.MaxChunks)

	byLevel := make(map[int]int)
	for _, c := range chunks {
		byLevel[c.Level]++
	}
	if byLevel[LevelRoot] != 1 {
		t.Errorf("roots = %d, want 1", byLevel[LevelRoot])
	}
	if byLevel[LevelSection] < 2 {
		t.Errorf("sections = %d, want at least 2", byLevel[LevelSection])
	}
	if byLevel[LevelParagraph] < 1 {
		t.Errorf("paragraphs = %d, want at least 1", byLevel[LevelParagraph])
	}
	if byLevel[LevelLeaf] < 1 {
		t.Errorf("leaves = %d, want at least 1", byLevel[LevelLeaf])
	}
}

func TestSemantic_RootIsDocumentPrefix(t *testing.T) {
	text := structuredDoc()
	s := New(DefaultConfig())
	chunks := s.SegmentAll(text, 500)
	root := chunks[0]
	if !strings.HasPrefix(text, root.Content) {
		t.Error("root content should be a prefix of the document")
	}
	if len(root.Content) > 1000 {
		t.Errorf("root content length = %d, want at most 1000", len(root.Content))
	}
	if root.StartChar != 0 || root.EndChar != len(text) {
		t.Errorf("root span = [%d,%d), want [0,%d)", root.StartChar, root.EndChar, len(text))
	}
}

func TestSemantic_SectionContentIsPreviewNotRaw(t *testing.T) {
	text := "# Big Section\n\n" + sentences(400, "bulk")
	s := New(DefaultConfig())
	chunks := s.SegmentAll(text, 1000)
	validateTree(t, chunks, len(text), s.cfg.MaxChunks)
	for _, c := range chunks {
		if c.Level != LevelSection {
			continue
		}
		if len(c.Content) > 1000+titleSlack {
			t.Errorf("section content length = %d, want a bounded preview", len(c.Content))
		}
		if c.EndChar-c.StartChar <= len(c.Content) {
			t.Error("section span should cover far more than the preview")
		}
	}
}

func TestSemantic_ShortParagraphsSkipped(t *testing.T) {
	text := "# Title\n\nTiny.\n\n" + sentences(40, "real") + "\n"
	s := New(DefaultConfig())
	chunks := s.SegmentAll(text, 500)
	for _, c := range chunks {
		if c.Level == LevelParagraph && len(c.Content) < minParagraphChunk {
			t.Errorf("paragraph chunk below minimum length: %q", c.Content)
		}
	}
}

func TestSemantic_DuplicateContentSkipped(t *testing.T) {
	para := sentences(40, "repeat")
	text := "# One\n\n" + para + "\n\n# Two\n\n" + para + "\n"
	s := New(DefaultConfig())
	chunks := s.SegmentAll(text, 2000)
	seen := make(map[string]bool)
	for _, c := range chunks {
		if seen[c.Content] {
			t.Fatalf("duplicate content emitted: %q", c.Content[:40])
		}
		seen[c.Content] = true
	}
}

func TestSemantic_LeafParentsAreParagraphs(t *testing.T) {
	text := structuredDoc()
	s := New(DefaultConfig())
	chunks := s.SegmentAll(text, 500)
	byID := make(map[string]Chunk)
	for _, c := range chunks {
		byID[c.ID] = c
	}
	for _, c := range chunks {
		if c.Level != LevelLeaf {
			continue
		}
		parent, ok := byID[c.ParentID]
		if !ok {
			t.Fatalf("leaf %s has unknown parent %s", c.ID, c.ParentID)
		}
		if parent.Level != LevelParagraph {
			t.Errorf("leaf parent level = %d, want %d", parent.Level, LevelParagraph)
		}
		if c.StartChar < parent.StartChar || c.EndChar > parent.EndChar {
			t.Errorf("leaf span [%d,%d) outside parent span [%d,%d)",
				c.StartChar, c.EndChar, parent.StartChar, parent.EndChar)
		}
	}
}

func TestSemantic_WhitespaceOnlyInputEmitsNoParagraphs(t *testing.T) {
	s := New(DefaultConfig())
	chunks := s.SegmentAll(strings.Repeat(" \n", 1000), 1000)
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	for _, c := range chunks {
		if c.Level >= LevelParagraph {
			t.Errorf("level %d chunk emitted for whitespace-only input: %d chars", c.Level, len(c.Content))
		}
	}
}

func TestSemantic_DuplicateSectionKeepsParagraphs(t *testing.T) {
	// Two sections with the same title whose bodies share the head and tail
	// the preview is built from: the second section chunk is a byte-identical
	// duplicate, but its paragraphs carry distinct content and must survive,
	// attached to the first section chunk.
	shared := sentences(8, "shared")
	bodyA := shared + sentences(20, "alpha") + shared
	bodyB := shared + sentences(20, "betaa") + shared
	text := "# Data\n\n" + bodyA + "\n\n# Data\n\n" + bodyB
	s := New(DefaultConfig())
	chunks := s.SegmentAll(text, 500)
	validateTree(t, chunks, len(text), s.cfg.MaxChunks)
	found := false
	for _, c := range chunks {
		if c.Level == LevelParagraph && strings.Contains(c.Content, "betaa") {
			found = true
		}
	}
	if !found {
		t.Error("second section's paragraphs were dropped with its duplicate section chunk")
	}
}

func TestSemantic_LeafContentMatchesSpan(t *testing.T) {
	text := structuredDoc()
	s := New(DefaultConfig())
	for c := range s.Segment(text, 500) {
		if c.Level != LevelParagraph && c.Level != LevelLeaf {
			continue
		}
		if text[c.StartChar:c.EndChar] != c.Content {
			t.Fatalf("level %d chunk content does not match its span", c.Level)
		}
	}
}
