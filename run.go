package kizami

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// errStopped signals that the consumer stopped pulling from the sequence.
	errStopped = errors.New("kizami: consumer stopped")
	// errBudget signals that the global chunk budget is exhausted.
	errBudget = errors.New("kizami: chunk budget exhausted")
)

// run carries the per-invocation state: the ID arena, the emission counter,
// and the seen-content guard. Each Segment call gets its own run, so one
// Segmenter is safe for concurrent use on independent documents.
type run struct {
	text      string
	maxLength int
	cfg       Config

	prefix  string // uuid-derived run prefix for the ID arena
	seq     int
	emitted int
	seen    map[[sha256.Size]byte]string // content hash -> owning chunk ID

	rootID  string
	rootLen int // length of the emitted root content
}

func newRun(text string, maxLength int, cfg Config) *run {
	return &run{
		text:      text,
		maxLength: maxLength,
		cfg:       cfg,
		prefix:    uuid.New().String()[:8],
		seen:      make(map[[sha256.Size]byte]string),
	}
}

// nextID returns the next run-local identifier.
func (r *run) nextID() string {
	id := fmt.Sprintf("%s_%d", r.prefix, r.seq)
	r.seq++
	return id
}

// remaining returns how many chunks may still be emitted.
func (r *run) remaining() int {
	return r.cfg.MaxChunks - r.emitted
}

// duplicate records content in the seen set and reports whether a
// byte-identical chunk was already emitted in this run.
func (r *run) duplicate(content string) bool {
	h := sha256.Sum256([]byte(content))
	if _, ok := r.seen[h]; ok {
		return true
	}
	r.seen[h] = ""
	return false
}

// claim is duplicate with ownership: id is recorded as the chunk carrying
// content, and on a repeat the owning chunk's ID comes back so children can
// attach there. The returned ID is empty when the earlier chunk was recorded
// without an owner.
func (r *run) claim(content, id string) (string, bool) {
	h := sha256.Sum256([]byte(content))
	if prior, ok := r.seen[h]; ok {
		return prior, true
	}
	r.seen[h] = id
	return "", false
}

// emit yields c to the consumer, enforcing the global budget.
func (r *run) emit(yield func(Chunk) bool, c Chunk) error {
	if r.emitted >= r.cfg.MaxChunks {
		return errBudget
	}
	if !yield(c) {
		return errStopped
	}
	r.emitted++
	return nil
}

// rootChunk builds the level-0 document summary chunk: the first
// min(1000, max(200, len/5)) characters, spanning the whole document.
func (r *run) rootChunk() Chunk {
	n := len(r.text) / 5
	if n < 200 {
		n = 200
	}
	if n > 1000 {
		n = 1000
	}
	if n > len(r.text) {
		n = len(r.text)
	}
	return Chunk{
		ID:        r.nextID(),
		Content:   r.text[:n],
		Level:     LevelRoot,
		StartChar: 0,
		EndChar:   len(r.text),
	}
}
