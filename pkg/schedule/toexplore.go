package schedule

// ToExplore is the to-explore index: a bitmap over (round, table) cells
// still containing unresolved seats (component C). Cell (r,t) maps to bit
// (r << shift) | t, where shift = ceil(log2(tableCount)), so an entire
// round's cells occupy a contiguous run of bits.
type ToExplore struct {
	words []word
	shift int
}

func (t ToExplore) index(round, table int) int {
	return (round << uint(t.shift)) | table
}

func (t ToExplore) cell(bitIndex int) (round, table int) {
	round = bitIndex >> uint(t.shift)
	table = bitIndex - (round << uint(t.shift))
	return
}

// Set marks cell (round, table) as open (state==true) or closed
// (state==false).
func (t ToExplore) Set(round, table int, state bool) {
	idx := t.index(round, table)
	if state {
		setBit(t.words, idx)
	} else {
		clearBit(t.words, idx)
	}
}

// Test reports whether cell (round, table) is still open.
func (t ToExplore) Test(round, table int) bool {
	return testBit(t.words, t.index(round, table))
}

// Iter returns an iterator over every open cell, in ascending bit order.
func (t ToExplore) Iter() *ToExploreIter {
	it := &ToExploreIter{t: t}
	if len(t.words) > 0 {
		it.cur = t.words[0]
	}
	return it
}

// ToExploreIter walks the set bits of a ToExplore in ascending order,
// skipping whole zero words at a time. It tolerates RemoveCurrent being
// called between Next calls — removal only ever touches the bit most
// recently yielded, which the iterator has already consumed locally.
type ToExploreIter struct {
	t         ToExplore
	wordIdx   int
	cur       word
	lastRound int
	lastTable int
	hasLast   bool
}

// Next yields the next open (round, table) pair in ascending order, or
// ok==false once every set bit has been consumed.
func (it *ToExploreIter) Next() (round, table int, ok bool) {
	for it.cur == 0 {
		it.wordIdx++
		if it.wordIdx >= len(it.t.words) {
			return 0, 0, false
		}
		it.cur = it.t.words[it.wordIdx]
	}
	tz := trailingZeros(it.cur)
	it.cur &^= word(1) << uint(tz)
	bitIndex := it.wordIdx*wordBits + tz
	round, table = it.t.cell(bitIndex)
	it.lastRound, it.lastTable = round, table
	it.hasLast = true
	return round, table, true
}

// RemoveCurrent clears, in the underlying buffer, the bit for the pair most
// recently returned by Next. A pair per set bit is still yielded exactly
// once per Iter traversal regardless of whether RemoveCurrent is called —
// the contract is "yield one pair per set bit, in ascending order".
func (it *ToExploreIter) RemoveCurrent() {
	if it.hasLast {
		it.t.Set(it.lastRound, it.lastTable, false)
	}
}
