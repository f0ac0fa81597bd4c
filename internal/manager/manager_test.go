package manager

import (
	"reflect"
	"testing"
)

// Testable Property 6: LRU eviction sequence.
func TestTouch_LRUSequence(t *testing.T) {
	m := New(2)

	if evicted := m.Touch("a"); len(evicted) != 0 {
		t.Fatalf("Touch(a) evicted = %v, want none", evicted)
	}
	if evicted := m.Touch("b"); len(evicted) != 0 {
		t.Fatalf("Touch(b) evicted = %v, want none", evicted)
	}
	if evicted := m.Touch("c"); !reflect.DeepEqual(evicted, []string{"a"}) {
		t.Fatalf("Touch(c) evicted = %v, want [a]", evicted)
	}
	if evicted := m.Touch("b"); len(evicted) != 0 {
		t.Fatalf("Touch(b) [refresh] evicted = %v, want none", evicted)
	}
	if evicted := m.Touch("d"); !reflect.DeepEqual(evicted, []string{"c"}) {
		t.Fatalf("Touch(d) evicted = %v, want [c]", evicted)
	}
}

// S4 — LRU eviction surfaces with max_loaded=1.
func TestTouch_MaxLoadedOne(t *testing.T) {
	m := New(1)
	m.Touch("A")
	evicted := m.Touch("B")
	if !reflect.DeepEqual(evicted, []string{"A"}) {
		t.Fatalf("Touch(B) evicted = %v, want [A]", evicted)
	}
}

// Testable Property 5: bound never exceeded.
func TestTouch_NeverExceedsBound(t *testing.T) {
	m := New(3)
	names := []string{"a", "b", "c", "d", "e", "f", "a", "b"}
	for _, n := range names {
		m.Touch(n)
		if len(m.Loaded()) > 3 {
			t.Fatalf("Loaded() len = %d after touching %q, want <= 3", len(m.Loaded()), n)
		}
	}
}

func TestLoaded_IsSortedAndDefensive(t *testing.T) {
	m := New(5)
	m.Touch("zeta")
	m.Touch("alpha")
	m.Touch("mu")

	got := m.Loaded()
	want := []string{"alpha", "mu", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Loaded() = %v, want %v", got, want)
	}

	got[0] = "mutated"
	if m.Loaded()[0] == "mutated" {
		t.Fatal("Loaded() returned a mutable view into internal state")
	}
}

func TestNew_ClampsMaxLoaded(t *testing.T) {
	m := New(0)
	m.Touch("a")
	evicted := m.Touch("b")
	if !reflect.DeepEqual(evicted, []string{"a"}) {
		t.Fatalf("Touch(b) evicted = %v, want [a] with clamped bound of 1", evicted)
	}
}
