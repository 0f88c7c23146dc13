package kizami

import (
	"go.uber.org/zap"

	"github.com/hyperjump/kizami/internal/boundary"
)

// fallbackStrategy is the simplified windowed strategy used when the
// semantic strategy fails: a root chunk, then fixed-size windows of the
// remainder cut at sentence ends (or spaces, to avoid splitting a word),
// all level 1 under the root.
func (s *Segmenter) fallbackStrategy(r *run, yield func(Chunk) bool) error {
	if r.rootID == "" {
		root := r.rootChunk()
		r.claim(root.Content, root.ID)
		if err := r.emit(yield, root); err != nil {
			return err
		}
		r.rootID = root.ID
		r.rootLen = len(root.Content)
	}
	if len(r.text) <= r.maxLength+r.maxLength/2 {
		return nil
	}

	effective := 2 * r.maxLength
	if effective > s.cfg.MaxChunkSize {
		effective = s.cfg.MaxChunkSize
	}
	overlap := effective / 10
	if overlap > 100 {
		overlap = 100
	}

	start := r.rootLen
	for start < len(r.text) {
		if r.remaining() <= 0 {
			s.logger.Warn("chunk budget reached, truncating windowed traversal",
				zap.Int("emitted", r.emitted))
			return nil
		}
		end := start + effective
		if end >= len(r.text) {
			end = len(r.text)
		} else if i := boundary.LastSentenceEnd(r.text, start+effective/2, end); i > start {
			end = i
		} else if i := boundary.LastSpace(r.text, start+effective/2, end); i > start {
			end = i
		}
		if cs, ce, ok := boundary.TrimSpan(r.text, start, end); ok {
			content := r.text[cs:ce]
			if !r.duplicate(content) {
				c := Chunk{
					ID:        r.nextID(),
					Content:   content,
					Level:     LevelSection,
					StartChar: cs,
					EndChar:   ce,
					ParentID:  r.rootID,
				}
				if err := r.emit(yield, c); err != nil {
					return budgetTruncation(s.logger, err, "window")
				}
			}
		}
		if end >= len(r.text) {
			return nil
		}
		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return nil
}
