package kizami

import (
	"errors"

	"go.uber.org/zap"

	"github.com/hyperjump/kizami/internal/boundary"
)

// minParagraphChunk is the smallest content kept as a paragraph chunk.
const minParagraphChunk = 50

// semanticStrategy is the structure-aware strategy: root, then each section,
// then each paragraph within a section, then each leaf within a sufficiently
// long paragraph. Chunks come out lazily in parent-before-child order.
func (s *Segmenter) semanticStrategy(r *run, yield func(Chunk) bool) error {
	root := r.rootChunk()
	r.claim(root.Content, root.ID)
	if err := r.emit(yield, root); err != nil {
		return err
	}
	r.rootID = root.ID
	r.rootLen = len(root.Content)

	leaves := boundary.NewLeafSplitter(r.maxLength, leafOverlap(r.maxLength), s.cfg.MaxChunkSize)

	sections := s.sections.Detect(r.text, s.cfg.MaxSections)
	for _, sec := range sections {
		if r.emitted >= s.cfg.MaxChunks-1 {
			s.logger.Warn("chunk budget reached, truncating section traversal",
				zap.Int("emitted", r.emitted))
			return nil
		}
		secChunk, parentID, fresh := s.sectionChunk(r, sec)
		if fresh {
			if err := r.emit(yield, secChunk); err != nil {
				return budgetTruncation(s.logger, err, "section")
			}
			parentID = secChunk.ID
		} else if parentID == "" {
			// Content matched a chunk recorded without an owner; the root
			// is the nearest parent left.
			parentID = r.rootID
		}
		if err := s.emitParagraphs(r, yield, leaves, sec, parentID); err != nil {
			return err
		}
	}
	return nil
}

// sectionChunk builds a level-1 chunk whose content is the section title
// plus a bounded preview of its content, never the raw full content. For a
// byte-identical duplicate it returns the owning chunk's ID instead, so the
// section's paragraphs and leaves still get a parent.
func (s *Segmenter) sectionChunk(r *run, sec boundary.Section) (Chunk, string, bool) {
	budget := r.maxLength - len(sec.Title) - 2
	if budget < 200 {
		budget = 200
	}
	content := sec.Title + "\n\n" + s.previewer.Preview(sec.Content, budget)
	id := r.nextID()
	if prior, dup := r.claim(content, id); dup {
		return Chunk{}, prior, false
	}
	return Chunk{
		ID:        id,
		Content:   content,
		Level:     LevelSection,
		StartChar: sec.Start,
		EndChar:   sec.End,
		ParentID:  r.rootID,
	}, "", true
}

// emitParagraphs emits level-2 chunks for one section, and level-3 leaves
// for paragraphs long enough to need them.
func (s *Segmenter) emitParagraphs(r *run, yield func(Chunk) bool, leaves *boundary.LeafSplitter, sec boundary.Section, sectionID string) error {
	leafThreshold := 2 * r.maxLength
	if floor := 3 * s.cfg.MinLeafLength; leafThreshold < floor {
		leafThreshold = floor
	}

	paras := s.paragraphs.Extract(sec.Content, sec.Start, s.cfg.MaxParagraphs)
	for _, para := range paras {
		if r.emitted >= s.cfg.MaxChunks-2 {
			s.logger.Warn("chunk budget reached, truncating paragraph traversal",
				zap.Int("emitted", r.emitted))
			return nil
		}
		if len(para.Content) < minParagraphChunk {
			continue
		}
		if r.duplicate(para.Content) {
			continue
		}
		pc := Chunk{
			ID:        r.nextID(),
			Content:   para.Content,
			Level:     LevelParagraph,
			StartChar: para.Start,
			EndChar:   para.End,
			ParentID:  sectionID,
		}
		if err := r.emit(yield, pc); err != nil {
			return budgetTruncation(s.logger, err, "paragraph")
		}
		if len(para.Content) <= leafThreshold {
			continue
		}
		if err := s.emitLeaves(r, yield, leaves, para, pc.ID); err != nil {
			return err
		}
	}
	return nil
}

// emitLeaves emits level-3 chunks for one long paragraph, bounded by the
// per-paragraph cap and the remaining global budget.
func (s *Segmenter) emitLeaves(r *run, yield func(Chunk) bool, leaves *boundary.LeafSplitter, para boundary.Paragraph, paragraphID string) error {
	budget := r.remaining()
	if budget > s.cfg.MaxLeafChunks {
		budget = s.cfg.MaxLeafChunks
	}
	if budget <= 0 {
		s.logger.Warn("chunk budget reached, skipping leaf chunks", zap.Int("emitted", r.emitted))
		return nil
	}
	for _, f := range leaves.Split(para.Content, para.Start, budget) {
		if len(f.Content) < s.cfg.MinLeafLength {
			continue
		}
		if r.duplicate(f.Content) {
			continue
		}
		c := Chunk{
			ID:        r.nextID(),
			Content:   f.Content,
			Level:     LevelLeaf,
			StartChar: f.Start,
			EndChar:   f.End,
			ParentID:  paragraphID,
		}
		if err := r.emit(yield, c); err != nil {
			return budgetTruncation(s.logger, err, "leaf")
		}
	}
	return nil
}

// leafOverlap derives the minimum leaf overlap from the target length.
func leafOverlap(maxLength int) int {
	o := maxLength / 10
	if o > 100 {
		o = 100
	}
	return o
}

// budgetTruncation converts budget exhaustion into a logged, non-error
// truncation; any other emission failure propagates.
func budgetTruncation(logger *zap.Logger, err error, tier string) error {
	if errors.Is(err, errBudget) {
		logger.Warn("chunk budget exhausted mid-tier, truncating", zap.String("tier", tier))
		return nil
	}
	return err
}
