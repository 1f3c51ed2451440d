package disjoint

import (
	"slices"
	"testing"
)

func TestUnion(t *testing.T) {
	s := New[string]()
	s.Union("a", "b")
	s.Union("c", "d")
	s.Add("e")

	tests := []struct {
		a, b string
		want bool
	}{
		{"a", "b", true},
		{"c", "d", true},
		{"a", "c", false},
		{"e", "a", false},
	}
	for _, tt := range tests {
		if got := s.Root(tt.a) == s.Root(tt.b); got != tt.want {
			t.Errorf("same root for %q and %q = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	if !s.Union("b", "d") {
		t.Error("Union(b, d) should merge two components")
	}
	if s.Union("a", "c") {
		t.Error("Union(a, c) should report an existing connection")
	}
	if s.Root("a") != s.Root("d") {
		t.Error("a and d should share a root after merging")
	}
	want := [][]string{{"a", "b", "c", "d"}, {"e"}}
	if got := s.Components(); !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Errorf("Components() = %v, want %v", got, want)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	s := New[int]()
	if i := s.Add(7); i != 0 {
		t.Errorf("first Add = %d, want 0", i)
	}
	if i := s.Add(7); i != 0 {
		t.Errorf("second Add = %d, want 0", i)
	}
	if got := s.Components(); len(got) != 1 {
		t.Errorf("Components() = %v, want one singleton", got)
	}
}

func TestComponentsAreDeterministic(t *testing.T) {
	build := func() [][]int {
		s := New[int]()
		for i := 0; i < 10; i++ {
			s.Add(i)
		}
		s.Union(9, 1)
		s.Union(3, 5)
		s.Union(5, 7)
		s.Union(1, 7)
		s.Union(2, 8)
		return s.Components()
	}

	want := [][]int{{0}, {1, 3, 5, 7, 9}, {2, 8}, {4}, {6}}
	for run := 0; run < 5; run++ {
		got := build()
		if !slices.EqualFunc(got, want, slices.Equal[[]int]) {
			t.Fatalf("run %d: Components() = %v, want %v", run, got, want)
		}
	}
}

func TestRootIsShared(t *testing.T) {
	s := New[int]()
	for i := 0; i < 100; i++ {
		s.Union(i, i+1)
	}
	root := s.Root(0)
	for i := 0; i <= 100; i++ {
		if got := s.Root(i); got != root {
			t.Fatalf("Root(%d) = %d, want %d", i, got, root)
		}
	}
	if s.Root(1000) != -1 {
		t.Error("Root of an unknown item should be -1")
	}
	if got := s.Components(); len(got) != 1 || len(got[0]) != 101 {
		t.Errorf("Components() should hold one component of 101 items, got %d", len(got))
	}
}
