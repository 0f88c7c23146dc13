package kizami

import (
	"errors"
	"strings"
	"testing"
)

func failingStrategy(msg string) strategyFunc {
	return func(r *run, yield func(Chunk) bool) error {
		return errors.New(msg)
	}
}

func TestCascade_SemanticFailureUsesFallback(t *testing.T) {
	s := New(DefaultConfig())
	s.semantic = failingStrategy("section detection broke")
	text := filler(5000)
	chunks := s.SegmentAll(text, 1000)
	validateTree(t, chunks, len(text), s.cfg.MaxChunks)
	if len(chunks) < 2 {
		t.Fatalf("expected windowed fallback chunks, got %d", len(chunks))
	}
	for i, c := range chunks[1:] {
		if c.Level != LevelSection {
			t.Errorf("fallback chunk %d: level %d, want %d", i+1, c.Level, LevelSection)
		}
		if c.ParentID != chunks[0].ID {
			t.Errorf("fallback chunk %d: parent %s, want root %s", i+1, c.ParentID, chunks[0].ID)
		}
	}
}

func TestCascade_SemanticPanicRecovered(t *testing.T) {
	s := New(DefaultConfig())
	s.semantic = func(r *run, yield func(Chunk) bool) error {
		panic("index out of range")
	}
	text := filler(5000)
	chunks := s.SegmentAll(text, 1000)
	validateTree(t, chunks, len(text), s.cfg.MaxChunks)
	if len(chunks) < 2 {
		t.Fatalf("expected fallback result after panic, got %d chunks", len(chunks))
	}
}

func TestCascade_DoubleFailureEmitsSingleTruncatedChunk(t *testing.T) {
	s := New(DefaultConfig())
	s.semantic = failingStrategy("semantic broke")
	s.fallback = failingStrategy("fallback broke too")
	text := filler(5000)
	chunks := s.SegmentAll(text, 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Level != LevelRoot {
		t.Errorf("level = %d, want %d", c.Level, LevelRoot)
	}
	if c.Content != text[:1000] {
		t.Errorf("content = %q..., want first 1000 characters of text", c.Content[:20])
	}
	if c.StartChar != 0 || c.EndChar != 1000 {
		t.Errorf("span = [%d,%d), want [0,1000)", c.StartChar, c.EndChar)
	}
}

func TestCascade_DoublePanicRecovered(t *testing.T) {
	s := New(DefaultConfig())
	s.semantic = func(r *run, yield func(Chunk) bool) error { panic("one") }
	s.fallback = func(r *run, yield func(Chunk) bool) error { panic("two") }
	text := strings.Repeat("z", 3000)
	chunks := s.SegmentAll(text, 500)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != text[:500] {
		t.Error("last resort should emit the truncated prefix")
	}
}

func TestCascade_PartialSemanticKeepsSingleRoot(t *testing.T) {
	s := New(DefaultConfig())
	s.semantic = func(r *run, yield func(Chunk) bool) error {
		root := r.rootChunk()
		r.duplicate(root.Content)
		if err := r.emit(yield, root); err != nil {
			return err
		}
		r.rootID = root.ID
		r.rootLen = len(root.Content)
		return errors.New("failed after emitting the root")
	}
	text := filler(5000)
	chunks := s.SegmentAll(text, 1000)
	validateTree(t, chunks, len(text), s.cfg.MaxChunks)
	if len(chunks) < 2 {
		t.Fatalf("expected fallback to continue the partial run, got %d chunks", len(chunks))
	}
}

func TestCascade_ConsumerStopDoesNotTriggerFallback(t *testing.T) {
	s := New(DefaultConfig())
	fallbackRan := false
	orig := s.fallback
	s.fallback = func(r *run, yield func(Chunk) bool) error {
		fallbackRan = true
		return orig(r, yield)
	}
	for range s.Segment(filler(50_000), 500) {
		break
	}
	if fallbackRan {
		t.Error("stopping the consumer must not be treated as a strategy failure")
	}
}
