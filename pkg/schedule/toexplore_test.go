package schedule

import "testing"

func TestToExploreSetTestIter(t *testing.T) {
	l, err := NewLayout([]int{4, 4, 4}, 3)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	buf := l.NewBuffer()
	n, err := l.Import(buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	te := n.ToExplore()

	te.Set(1, 2, true)
	te.Set(2, 0, true)
	if !te.Test(1, 2) || !te.Test(2, 0) {
		t.Fatalf("expected both cells open")
	}
	if te.Test(0, 0) {
		t.Fatalf("cell (0,0) should still be closed")
	}

	var got [][2]int
	it := te.Iter()
	for {
		r, tb, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, [2]int{r, tb})
	}
	want := [][2]int{{1, 2}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("Iter() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Iter() = %v, want %v", got, want)
		}
	}
}

func TestToExploreRemoveCurrent(t *testing.T) {
	l, err := NewLayout([]int{4, 4}, 2)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	buf := l.NewBuffer()
	n, err := l.Import(buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	te := n.ToExplore()
	te.Set(1, 0, true)
	te.Set(1, 1, true)

	it := te.Iter()
	r, tb, ok := it.Next()
	if !ok || r != 1 || tb != 0 {
		t.Fatalf("first Next() = (%d,%d,%v), want (1,0,true)", r, tb, ok)
	}
	it.RemoveCurrent()
	if te.Test(1, 0) {
		t.Fatalf("RemoveCurrent did not clear the bit in the underlying buffer")
	}

	// The traversal already in flight still yields the second pair, since
	// the iterator consumed both bits from its snapshot word up front.
	r, tb, ok = it.Next()
	if !ok || r != 1 || tb != 1 {
		t.Fatalf("second Next() = (%d,%d,%v), want (1,1,true)", r, tb, ok)
	}

	if _, _, ok := it.Next(); ok {
		t.Fatalf("expected iteration to be exhausted")
	}

	// A fresh iterator reflects the removal.
	it2 := te.Iter()
	r2, tb2, ok2 := it2.Next()
	if !ok2 || r2 != 1 || tb2 != 1 {
		t.Fatalf("fresh iterator = (%d,%d,%v), want (1,1,true)", r2, tb2, ok2)
	}
	if _, _, ok2 := it2.Next(); ok2 {
		t.Fatalf("expected fresh iterator to yield only one pair after removal")
	}
}

func TestToExploreIndexCellRoundTrip(t *testing.T) {
	l, err := NewLayout([]int{4, 4, 4, 4, 4}, 4)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	buf := l.NewBuffer()
	n, err := l.Import(buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	te := n.ToExplore()
	for r := 0; r < l.RoundCount(); r++ {
		for tb := 0; tb < l.TableCount(); tb++ {
			idx := te.index(r, tb)
			gotR, gotT := te.cell(idx)
			if gotR != r || gotT != tb {
				t.Errorf("cell(index(%d,%d)) = (%d,%d), want (%d,%d)", r, tb, gotR, gotT, r, tb)
			}
		}
	}
}
