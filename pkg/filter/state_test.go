package filter

import (
	"testing"
)

func TestStateZeroValue(t *testing.T) {
	var s State
	if s.Segment != "" || s.Category != "" || s.Term != "" {
		t.Errorf("Zero state should be all-empty, got %+v", s)
	}
}

func TestWithSegmentClearsTerm(t *testing.T) {
	s := State{Category: "water", Term: "squirt"}.WithSegment("kanto")

	if s.Segment != "kanto" {
		t.Errorf("Segment = %q, want kanto", s.Segment)
	}
	if s.Category != "water" {
		t.Errorf("Category = %q, want water (unchanged)", s.Category)
	}
	if s.Term != "" {
		t.Errorf("Term = %q, want cleared", s.Term)
	}
}

func TestWithCategoryClearsTerm(t *testing.T) {
	s := State{Segment: "johto", Term: "chik"}.WithCategory("grass")

	if s.Segment != "johto" {
		t.Errorf("Segment = %q, want johto (unchanged)", s.Segment)
	}
	if s.Category != "grass" {
		t.Errorf("Category = %q, want grass", s.Category)
	}
	if s.Term != "" {
		t.Errorf("Term = %q, want cleared", s.Term)
	}
}

func TestWithTermKeepsFacets(t *testing.T) {
	s := State{Segment: "kanto", Category: "fire"}.WithTerm("char")

	if s.Segment != "kanto" || s.Category != "fire" {
		t.Errorf("Facets changed: %+v", s)
	}
	if s.Term != "char" {
		t.Errorf("Term = %q, want char", s.Term)
	}
}

func TestClearTerm(t *testing.T) {
	s := State{Segment: "kanto", Term: "char"}.ClearTerm()

	if s.Term != "" {
		t.Errorf("Term = %q, want empty", s.Term)
	}
	if s.Segment != "kanto" {
		t.Errorf("Segment = %q, want kanto (unchanged)", s.Segment)
	}
}

func TestTransitionsAreValueSemantics(t *testing.T) {
	original := State{Segment: "kanto", Term: "pika"}
	_ = original.WithSegment("johto")

	if original.Segment != "kanto" || original.Term != "pika" {
		t.Errorf("Transition mutated the receiver: %+v", original)
	}
}
