package selection

import "testing"

func TestStateRoundTrip(t *testing.T) {
	var s State
	if s.Hash() != "" || s.Row() != -1 {
		t.Fatalf("fresh state not empty: %q %d", s.Hash(), s.Row())
	}
	if !s.Set("abc", 3) {
		t.Fatalf("Set refused valid selection")
	}
	if s.Hash() != "abc" || s.Row() != 3 {
		t.Fatalf("got %q %d, want abc 3", s.Hash(), s.Row())
	}
	s.Set("def", 0)
	if s.Hash() != "def" {
		t.Fatalf("selection not replaced: %q", s.Hash())
	}
	s.Clear()
	if s.Hash() != "" {
		t.Fatalf("selection survived clear: %q", s.Hash())
	}
}

func TestStateRejectsInvalid(t *testing.T) {
	var s State
	s.Set("abc", 1)
	if s.Set("", 2) {
		t.Fatalf("empty hash accepted")
	}
	if s.Hash() != "" {
		t.Fatalf("invalid set must clear, got %q", s.Hash())
	}
	if s.Set("abc", -1) {
		t.Fatalf("negative row accepted")
	}
}
