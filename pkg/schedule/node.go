package schedule

// Node is a typed view over one partial-assignment state buffer: the flat
// []word backing a single search-tree node (spec.md §3). A Node is always
// created by Layout.Import and aliases its buffer — copying a Node value
// does not copy the state; use CopyInto for that.
type Node struct {
	layout *Layout
	buf    []word
}

// Layout returns the layout this node was imported under.
func (n Node) Layout() *Layout { return n.layout }

// Buffer returns the raw backing buffer — the wire format is exactly this
// slice, serialized verbatim (spec.md §3, "Frontier node on the wire").
func (n Node) Buffer() []word { return n.buf }

// PlayersPlaced returns the count of seats with a fixed occupant across the
// whole schedule.
func (n Node) PlayersPlaced() int { return int(n.buf[n.layout.playersPlacedOff]) }

func (n Node) setPlayersPlaced(v int) { n.buf[n.layout.playersPlacedOff] = word(v) }

func (n Node) incPlayersPlaced() { n.buf[n.layout.playersPlacedOff]++ }

// EmptyTables returns the count of (round, table) cells not yet fully
// seated.
func (n Node) EmptyTables() int { return int(n.buf[n.layout.emptyTablesOff]) }

func (n Node) setEmptyTables(v int) { n.buf[n.layout.emptyTablesOff] = word(v) }

func (n Node) decEmptyTables() { n.buf[n.layout.emptyTablesOff]-- }

// ToExplore returns the to-explore index view (component C).
func (n Node) ToExplore() ToExplore {
	return ToExplore{
		words: n.buf[n.layout.toExploreOff : n.layout.toExploreOff+n.layout.toExploreWords],
		shift: n.layout.toExploreShift,
	}
}

// PlayedWith returns played_with[p]: the set of players p has already been
// co-seated with in any fixed seat.
func (n Node) PlayedWith(p int) PlayerSet {
	return n.slice(n.layout.playedWithOff + p*n.layout.playerWords)
}

// PlayedInRound returns played_in_round[r]: the players assigned to any
// table in round r.
func (n Node) PlayedInRound(r int) PlayerSet {
	return n.slice(n.layout.playedInRoundOff + r*n.layout.playerWords)
}

// PlayedOnTableTotal returns played_on_table_total[t]: players ever seated
// at table t across any round.
func (n Node) PlayedOnTableTotal(t int) PlayerSet {
	return n.slice(n.layout.playedOnTableOff + t*n.layout.playerWords)
}

// Fixed returns fixed[r][t]: players definitely seated at cell (r,t).
func (n Node) Fixed(r, t int) PlayerSet {
	return n.slice(n.layout.fixedOff + n.cellOffset(r, t))
}

// Potential returns potential[r][t]: players possibly seatable at cell
// (r,t).
func (n Node) Potential(r, t int) PlayerSet {
	return n.slice(n.layout.potentialOff + n.cellOffset(r, t))
}

func (n Node) cellOffset(r, t int) int {
	return (r*n.layout.TableCount() + t) * n.layout.playerWords
}

func (n Node) slice(off int) PlayerSet {
	return PlayerSet(n.buf[off : off+n.layout.playerWords])
}

// CopyInto copies n's entire buffer into dst, which must share the same
// layout (typically dst.layout == n.layout, dst obtained from the same
// Layout). This is the "snapshot" operation propagate.go's Branch outcome
// uses to produce a child node.
func (n Node) CopyInto(dst Node) {
	copy(dst.buf, n.buf)
}

// Reset zeroes the buffer. Used before InitialNode re-seeds it.
func (n Node) Reset() {
	for i := range n.buf {
		n.buf[i] = 0
	}
}
