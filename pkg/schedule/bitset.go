package schedule

// PlayerSet is a bitmap over player indices [0, P), packed into words. The
// sets returned by Node's accessors are sub-slices of the node's backing
// buffer — "import" in spec terms — so mutating one mutates the node; a
// PlayerSet allocated on its own (a scratch set) aliases nothing.
type PlayerSet []word

// Set sets bit p.
func (s PlayerSet) Set(p int) { setBit(s, p) }

// Clear clears bit p.
func (s PlayerSet) Clear(p int) { clearBit(s, p) }

// Test reports whether bit p is set.
func (s PlayerSet) Test(p int) bool { return testBit(s, p) }

// Popcount returns the number of set bits.
func (s PlayerSet) Popcount() int {
	n := 0
	for _, w := range s {
		n += popcount(w)
	}
	return n
}

// IsZero reports whether every bit is clear.
func (s PlayerSet) IsZero() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// CopyFrom overwrites s with src, word for word. Both must be the same
// length (the player-bit-word-count for this problem).
func (s PlayerSet) CopyFrom(src PlayerSet) {
	copy(s, src)
}

// AndNot clears from s every bit that is set in other (s &^= other).
func (s PlayerSet) AndNot(other PlayerSet) {
	for i := range s {
		s[i] &^= other[i]
	}
}

// Or sets into s every bit that is set in other (s |= other).
func (s PlayerSet) Or(other PlayerSet) {
	for i := range s {
		s[i] |= other[i]
	}
}

// Intersects reports whether s and other share any set bit.
func (s PlayerSet) Intersects(other PlayerSet) bool {
	for i := range s {
		if s[i]&other[i] != 0 {
			return true
		}
	}
	return false
}

// IsSubset reports whether every bit set in s is also set in other.
func (s PlayerSet) IsSubset(other PlayerSet) bool {
	for i := range s {
		if s[i]&^other[i] != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether s and other have identical bits.
func (s PlayerSet) Equal(other PlayerSet) bool {
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Lowest returns the lowest-indexed set bit and true, or (0, false) if s is
// entirely zero.
func (s PlayerSet) Lowest() (int, bool) {
	for i, w := range s {
		if w != 0 {
			return i*wordBits + trailingZeros(w), true
		}
	}
	return 0, false
}

// Iterate calls fn once for every set bit, in ascending order, stopping
// early if fn returns false.
func (s PlayerSet) Iterate(fn func(player int) bool) {
	for i, w := range s {
		for w != 0 {
			tz := trailingZeros(w)
			if !fn(i*wordBits + tz) {
				return
			}
			w &^= word(1) << uint(tz)
		}
	}
}
