package kizami

import (
	"testing"
)

func TestIDMap_Apply(t *testing.T) {
	chunks := []Chunk{
		{ID: "run_0", Level: LevelRoot},
		{ID: "run_1", Level: LevelSection, ParentID: "run_0"},
		{ID: "run_2", Level: LevelParagraph, ParentID: "run_1"},
	}
	m := NewIDMap()
	m.Assign("run_0", "doc:1")
	m.Assign("run_1", "doc:2")
	m.Assign("run_2", "doc:3")

	out := m.Apply(chunks)
	if out[0].ID != "doc:1" || out[1].ID != "doc:2" || out[2].ID != "doc:3" {
		t.Errorf("IDs not remapped: %+v", out)
	}
	if out[1].ParentID != "doc:1" || out[2].ParentID != "doc:2" {
		t.Errorf("parent IDs not remapped: %+v", out)
	}
	if chunks[0].ID != "run_0" {
		t.Error("Apply must not mutate its input")
	}
}

func TestIDMap_UnassignedKept(t *testing.T) {
	m := NewIDMap()
	m.Assign("a", "durable-a")
	out := m.Apply([]Chunk{{ID: "a"}, {ID: "b", ParentID: "a"}})
	if out[0].ID != "durable-a" {
		t.Errorf("ID = %s", out[0].ID)
	}
	if out[1].ID != "b" {
		t.Errorf("unassigned ID rewritten to %s", out[1].ID)
	}
	if out[1].ParentID != "durable-a" {
		t.Errorf("ParentID = %s", out[1].ParentID)
	}
}

func TestIDMap_Durable(t *testing.T) {
	m := NewIDMap()
	m.Assign("x", "y")
	if id, ok := m.Durable("x"); !ok || id != "y" {
		t.Errorf("Durable(x) = %s, %v", id, ok)
	}
	if _, ok := m.Durable("missing"); ok {
		t.Error("Durable should miss for unknown IDs")
	}
}

func TestSegment_IDsUniqueAndRemappable(t *testing.T) {
	s := New(DefaultConfig())
	chunks := s.SegmentAll(filler(20_000), 500)
	m := NewIDMap()
	for _, c := range chunks {
		m.Assign(c.ID, "stored:"+c.ID)
	}
	out := m.Apply(chunks)
	for i, c := range out {
		if c.ParentID == "" {
			continue
		}
		if c.ParentID[:7] != "stored:" {
			t.Errorf("chunk %d: parent %s not remapped", i, c.ParentID)
		}
	}
}
