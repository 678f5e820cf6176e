package review

import (
	"reflect"
	"testing"
)

func TestSelection_ReplaceDoesNotMerge(t *testing.T) {
	var s Selection
	s.Replace([]string{"A"})
	s.Replace([]string{"B"})

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Expected [B], got %v", got)
	}
	if s.Contains("A") {
		t.Error("A should no longer be selected")
	}
}

func TestSelection_KeepsOrderAndDedupes(t *testing.T) {
	s := NewSelection("C", "A", "C", "", "B")
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"C", "A", "B"}) {
		t.Errorf("Expected [C A B], got %v", got)
	}
	if s.Len() != 3 {
		t.Errorf("Expected len 3, got %d", s.Len())
	}
}

func TestSelection_Toggled(t *testing.T) {
	s := NewSelection("A", "B")

	if got := s.Toggled("C"); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Expected append, got %v", got)
	}
	if got := s.Toggled("A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Expected removal, got %v", got)
	}
	if !reflect.DeepEqual(s.IDs(), []string{"A", "B"}) {
		t.Error("Toggled must not modify the selection")
	}
}

func TestSelection_Retain(t *testing.T) {
	s := NewSelection("A", "B", "C")
	got := s.Retain(func(id string) bool { return id != "B" })
	if !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("Expected [A C], got %v", got)
	}
}

func TestSelection_ZeroValue(t *testing.T) {
	var s Selection
	if s.Len() != 0 || s.Contains("A") || len(s.IDs()) != 0 {
		t.Error("Zero selection should be empty")
	}
}
