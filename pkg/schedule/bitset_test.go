package schedule

import "testing"

func newTestSet(words int) PlayerSet {
	return make(PlayerSet, words)
}

func TestPlayerSetSetClearTest(t *testing.T) {
	s := newTestSet(2)
	s.Set(3)
	s.Set(70)
	if !s.Test(3) || !s.Test(70) {
		t.Fatalf("expected bits 3 and 70 set, got %v", s)
	}
	if s.Test(4) {
		t.Fatalf("expected bit 4 clear")
	}
	s.Clear(3)
	if s.Test(3) {
		t.Fatalf("expected bit 3 cleared")
	}
}

func TestPlayerSetPopcountAndIsZero(t *testing.T) {
	s := newTestSet(2)
	if !s.IsZero() {
		t.Fatalf("fresh set should be zero")
	}
	s.Set(0)
	s.Set(1)
	s.Set(100)
	if got := s.Popcount(); got != 3 {
		t.Fatalf("Popcount() = %d, want 3", got)
	}
	if s.IsZero() {
		t.Fatalf("set with bits should not be zero")
	}
}

func TestPlayerSetAndNotOrIntersects(t *testing.T) {
	a := newTestSet(1)
	b := newTestSet(1)
	a.Set(1)
	a.Set(2)
	b.Set(2)
	b.Set(3)

	if !a.Intersects(b) {
		t.Fatalf("expected a and b to intersect on bit 2")
	}

	aCopy := newTestSet(1)
	aCopy.CopyFrom(a)
	aCopy.AndNot(b)
	if aCopy.Test(2) || !aCopy.Test(1) {
		t.Fatalf("AndNot left wrong bits: %v", aCopy)
	}

	aCopy.CopyFrom(a)
	aCopy.Or(b)
	for _, p := range []int{1, 2, 3} {
		if !aCopy.Test(p) {
			t.Fatalf("Or missing bit %d", p)
		}
	}
}

func TestPlayerSetIsSubsetEqual(t *testing.T) {
	a := newTestSet(1)
	b := newTestSet(1)
	a.Set(5)
	b.Set(5)
	b.Set(6)
	if !a.IsSubset(b) {
		t.Fatalf("a should be a subset of b")
	}
	if b.IsSubset(a) {
		t.Fatalf("b should not be a subset of a")
	}
	if a.Equal(b) {
		t.Fatalf("a and b should not be equal")
	}
	b.Clear(6)
	if !a.Equal(b) {
		t.Fatalf("a and b should now be equal")
	}
}

func TestPlayerSetLowestAndIterate(t *testing.T) {
	s := newTestSet(2)
	if _, ok := s.Lowest(); ok {
		t.Fatalf("empty set should have no lowest bit")
	}
	s.Set(64)
	s.Set(10)
	s.Set(5)
	lowest, ok := s.Lowest()
	if !ok || lowest != 5 {
		t.Fatalf("Lowest() = (%d, %v), want (5, true)", lowest, ok)
	}

	var seen []int
	s.Iterate(func(p int) bool {
		seen = append(seen, p)
		return true
	})
	want := []int{5, 10, 64}
	if len(seen) != len(want) {
		t.Fatalf("Iterate() = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("Iterate() = %v, want %v", seen, want)
		}
	}

	seen = nil
	s.Iterate(func(p int) bool {
		seen = append(seen, p)
		return false
	})
	if len(seen) != 1 || seen[0] != 5 {
		t.Fatalf("early-stop Iterate() = %v, want [5]", seen)
	}
}
