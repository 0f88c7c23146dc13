package kizami

// Hierarchy levels of emitted chunks.
const (
	LevelRoot      = 0 // document root/summary
	LevelSection   = 1 // coarse titled span
	LevelParagraph = 2 // mid-level block
	LevelLeaf      = 3 // fine-grained overlapping fragment
)

// Chunk is an emitted fragment descriptor. IDs are unique within one run
// only; the persistence layer replaces them with durable keys (see IDMap).
// StartChar and EndChar are offsets into the original input text; for
// derived content (root summary, section previews) they bound the source
// span, not necessarily len(Content).
type Chunk struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Level     int    `json:"hierarchy_level"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	ParentID  string `json:"parent_id,omitempty"`
}

// IDMap records the translation of run-local chunk IDs into durable storage
// keys. The consuming layer populates it while persisting chunks and uses
// Apply to rewrite parent references.
type IDMap struct {
	byLocal map[string]string
}

// NewIDMap creates an empty IDMap.
func NewIDMap() *IDMap {
	return &IDMap{byLocal: make(map[string]string)}
}

// Assign records the durable key for a run-local ID.
func (m *IDMap) Assign(localID, durableID string) {
	m.byLocal[localID] = durableID
}

// Durable returns the durable key for a run-local ID.
func (m *IDMap) Durable(localID string) (string, bool) {
	id, ok := m.byLocal[localID]
	return id, ok
}

// Apply returns a copy of chunks with ID and ParentID rewritten to their
// assigned durable keys. IDs without an assignment are left unchanged.
func (m *IDMap) Apply(chunks []Chunk) []Chunk {
	out := make([]Chunk, len(chunks))
	copy(out, chunks)
	for i := range out {
		if id, ok := m.byLocal[out[i].ID]; ok {
			out[i].ID = id
		}
		if out[i].ParentID == "" {
			continue
		}
		if id, ok := m.byLocal[out[i].ParentID]; ok {
			out[i].ParentID = id
		}
	}
	return out
}
