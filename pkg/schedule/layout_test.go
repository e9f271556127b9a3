package schedule

import "testing"

func TestNewLayoutRejectsZeroLengthTable(t *testing.T) {
	if _, err := NewLayout([]int{4, 0, 4}, 2); err != ErrZeroLengthTable {
		t.Fatalf("got err %v, want ErrZeroLengthTable", err)
	}
	if _, err := NewLayout(nil, 1); err != ErrZeroLengthTable {
		t.Fatalf("got err %v, want ErrZeroLengthTable for empty tables", err)
	}
}

func TestNewLayoutRejectsNonPositiveRounds(t *testing.T) {
	if _, err := NewLayout([]int{4, 4}, 0); err == nil {
		t.Fatalf("expected error for rounds=0")
	}
}

func TestLayoutBasicCounts(t *testing.T) {
	l, err := NewLayout([]int{4, 4, 4, 4, 4, 4}, 6)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if got := l.PlayerCount(); got != 24 {
		t.Fatalf("PlayerCount() = %d, want 24", got)
	}
	if got := l.TableCount(); got != 6 {
		t.Fatalf("TableCount() = %d, want 6", got)
	}
	if got := l.RoundCount(); got != 6 {
		t.Fatalf("RoundCount() = %d, want 6", got)
	}
	if got := l.PlayerWords(); got != wordsFor(24) {
		t.Fatalf("PlayerWords() = %d, want %d", got, wordsFor(24))
	}
}

func TestLayoutImportRejectsShortBuffer(t *testing.T) {
	l, err := NewLayout([]int{4, 4}, 2)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	short := make([]word, l.TotalWords()-1)
	if _, err := l.Import(short); err != ErrLayoutTooSmall {
		t.Fatalf("got err %v, want ErrLayoutTooSmall", err)
	}

	buf := l.NewBuffer()
	if _, err := l.Import(buf); err != nil {
		t.Fatalf("Import on exact-size buffer failed: %v", err)
	}
}

func TestLayoutImportAliasesBuffer(t *testing.T) {
	l, err := NewLayout([]int{2}, 1)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	buf := l.NewBuffer()
	n, err := l.Import(buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	n.Fixed(0, 0).Set(1)
	if !testBit(buf[l.fixedOff:], 1) {
		t.Fatalf("mutation through Node did not reach underlying buffer")
	}
}

func TestBitLength(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
	}
	for _, c := range cases {
		if got := bitLength(c.n); got != c.want {
			t.Errorf("bitLength(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
