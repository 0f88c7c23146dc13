// Package kizami turns arbitrarily long plain text into a bounded,
// hierarchical tree of overlapping chunks suitable for embedding and vector
// retrieval. It receives a string and a target size and returns a lazy,
// parent-before-child chunk sequence; extraction, embedding, indexing, and
// persistence belong to the callers on either side.
//
// Segmentation never fails outright: the structure-aware semantic strategy
// degrades to a windowed fallback, which degrades to a single truncated
// chunk as a last resort.
package kizami

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hyperjump/kizami/internal/boundary"
)

// emptyPlaceholder replaces empty input so every run yields at least one
// chunk with non-empty content.
const emptyPlaceholder = "[empty document]"

// Salience decides whether a sentence is worth surfacing in a section
// preview. See WithSalience.
type Salience interface {
	IsSalient(sentence string) bool
}

// strategyFunc produces chunks for one run. Strategies report errors instead
// of panicking where they can; panics are recovered at the cascade boundary.
type strategyFunc func(r *run, yield func(Chunk) bool) error

// Segmenter produces hierarchical chunk sequences. It holds no per-run
// state and is safe for concurrent use on independent documents.
type Segmenter struct {
	cfg      Config
	logger   *zap.Logger
	salience Salience

	sections   *boundary.SectionDetector
	paragraphs *boundary.ParagraphExtractor
	previewer  *boundary.Previewer

	semantic strategyFunc
	fallback strategyFunc
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithLogger sets a logger for degradation warnings (input clamping, budget
// truncation, strategy failure).
func WithLogger(l *zap.Logger) Option {
	return func(s *Segmenter) { s.logger = l }
}

// WithSalience replaces the default marker-word heuristic used by section
// previews, e.g. for another locale or domain.
func WithSalience(sal Salience) Option {
	return func(s *Segmenter) { s.salience = sal }
}

// New creates a Segmenter. Zero values in cfg are filled with defaults.
func New(cfg Config, opts ...Option) *Segmenter {
	ApplyDefaults(&cfg)
	s := &Segmenter{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sections = boundary.NewSectionDetector(cfg.ThresholdLarge)
	s.paragraphs = boundary.NewParagraphExtractor()
	s.previewer = boundary.NewPreviewer(s.salience)
	s.semantic = s.semanticStrategy
	s.fallback = s.fallbackStrategy
	return s
}

// Segment returns a lazy, single-pass sequence of chunks for text. The root
// chunk comes first, parents always precede their children, and the sequence
// always yields at least one chunk. Stop consuming by breaking out of the
// range loop; unproduced chunks cost nothing.
//
// maxLength is the target chunk size in characters; invalid values are
// clamped with a warning, never rejected.
func (s *Segmenter) Segment(text string, maxLength int) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		text, maxLength, empty := s.clampInput(text, maxLength)
		r := newRun(text, maxLength, s.cfg)

		if empty {
			yield(Chunk{ID: r.nextID(), Content: emptyPlaceholder, Level: LevelRoot})
			return
		}
		if len(text) <= maxLength {
			yield(Chunk{ID: r.nextID(), Content: text, Level: LevelRoot, StartChar: 0, EndChar: len(text)})
			return
		}

		semErr := s.runStrategy(s.semantic, r, yield)
		if semErr == nil || errors.Is(semErr, errStopped) {
			return
		}
		s.logger.Warn("semantic segmentation failed, using windowed fallback", zap.Error(semErr))

		fbErr := s.runStrategy(s.fallback, r, yield)
		if fbErr == nil || errors.Is(fbErr, errStopped) {
			return
		}
		s.logger.Error("fallback segmentation failed, emitting single truncated chunk",
			zap.Error(multierr.Append(semErr, fbErr)))

		// Last resort: one truncated chunk. This path cannot fail. Skipped
		// when a partial result was already delivered, to keep the single
		// root invariant.
		if r.emitted == 0 {
			end := maxLength
			if end > len(text) {
				end = len(text)
			}
			yield(Chunk{ID: r.nextID(), Content: text[:end], Level: LevelRoot, StartChar: 0, EndChar: end})
		}
	}
}

// SegmentAll drains Segment into a slice for callers needing random access.
// It performs no additional computation over the lazy sequence.
func (s *Segmenter) SegmentAll(text string, maxLength int) []Chunk {
	chunks := make([]Chunk, 0, 16)
	for c := range s.Segment(text, maxLength) {
		chunks = append(chunks, c)
	}
	return chunks
}

// clampInput validates the inputs without ever rejecting them: invalid
// target lengths fall back to the configured default or ceiling, oversized
// text is truncated, and empty text is flagged for the sentinel path.
func (s *Segmenter) clampInput(text string, maxLength int) (string, int, bool) {
	if maxLength <= 0 {
		s.logger.Warn("invalid target length, using default",
			zap.Int("max_length", maxLength), zap.Int("default", s.cfg.DefaultTargetLength))
		maxLength = s.cfg.DefaultTargetLength
	}
	if maxLength > s.cfg.MaxChunkSize {
		s.logger.Warn("target length above ceiling, clamping",
			zap.Int("max_length", maxLength), zap.Int("ceiling", s.cfg.MaxChunkSize))
		maxLength = s.cfg.MaxChunkSize
	}
	if len(text) > s.cfg.MaxTextLength {
		s.logger.Warn("text exceeds maximum length, truncating",
			zap.Int("length", len(text)), zap.Int("max", s.cfg.MaxTextLength))
		text = text[:s.cfg.MaxTextLength]
	}
	if text == "" {
		return "", maxLength, true
	}
	return text, maxLength, false
}

// runStrategy executes one strategy, converting panics into errors so the
// cascade can degrade instead of crashing the caller.
func (s *Segmenter) runStrategy(fn strategyFunc, r *run, yield func(Chunk) bool) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("segmentation panic: %v", p)
		}
	}()
	return fn(r, yield)
}
