package schedule

// Outcome is the three-way result of one Step invocation (component D).
type Outcome int

const (
	// Done means in is a fully determined, feasible schedule: every cell
	// is closed. No child is produced.
	Done Outcome = iota
	// Branch means propagation succeeded but at least one cell still has
	// multiple candidates. out holds the committed child; in is mutated
	// in place into the residual "try a different player here" sibling.
	Branch
	// DeadEnd means propagation derived a contradiction, or no player
	// could be committed at the residual decision cell. Caller discards
	// in; no child is produced.
	DeadEnd
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "Done"
	case Branch:
		return "Branch"
	case DeadEnd:
		return "DeadEnd"
	default:
		return "Outcome(?)"
	}
}

// Step is the propagator-and-brancher: the heart of the search. It takes a
// parent partial assignment (in) and a same-layout scratch buffer (out),
// propagates forced seats to fixpoint, and either reports the schedule is
// complete (Done), commits one branching choice into out while narrowing in
// into its residual sibling (Branch), or detects a contradiction (DeadEnd).
//
// Step is a pure function of in's buffer: given the same input bits it
// always produces bit-identical output, since every pass below iterates in
// a fixed, bit-position-determined order.
func Step(in, out Node) Outcome {
	findHiddenSingles(in)

	l := in.layout
	var (
		haveLowest         bool
		lowestFixed        int
		lowestRound        int
		lowestTable        int
	)

	toExplore := in.ToExplore()
	it := toExplore.Iter()
	for {
		round, table, ok := it.Next()
		if !ok {
			break
		}
		size := l.TableSize(table)
		fixed := in.Fixed(round, table)
		potential := in.Potential(round, table)
		fixedCount := fixed.Popcount()

		switch {
		case fixedCount > size:
			return DeadEnd
		case fixedCount == size:
			it.RemoveCurrent()
			in.decEmptyTables()
			potential.CopyFrom(fixed)
		case potential.Popcount() == size:
			// Every remaining candidate at this cell must be committed.
			for {
				player, any := lowestCandidate(potential, fixed)
				if !any {
					break
				}
				if canPlace(in, round, table, player) {
					commit(in, round, table, player)
				} else {
					potential.Clear(player)
				}
			}
		default:
			if !haveLowest || fixedCount < lowestFixed {
				haveLowest = true
				lowestFixed = fixedCount
				lowestRound = round
				lowestTable = table
			}
		}
	}

	if !haveLowest {
		if in.EmptyTables() == 0 {
			return Done
		}
		return DeadEnd
	}

	fixed := in.Fixed(lowestRound, lowestTable)
	potential := in.Potential(lowestRound, lowestTable)
	for {
		player, any := lowestCandidate(potential, fixed)
		if !any {
			return DeadEnd
		}
		if !canPlace(in, lowestRound, lowestTable, player) {
			potential.Clear(player)
			continue
		}
		in.CopyInto(out)
		potential.Clear(player) // residual: try a different player next time
		commit(out, lowestRound, lowestTable, player)
		return Branch
	}
}

// lowestCandidate returns the lowest-indexed player set in potential but
// not yet in fixed, i.e. potential &^ fixed, and whether one exists.
func lowestCandidate(potential, fixed PlayerSet) (int, bool) {
	for i := range potential {
		c := potential[i] &^ fixed[i]
		if c != 0 {
			return i*wordBits + trailingZeros(c), true
		}
	}
	return 0, false
}

// canPlace reports whether player can be seated at cell (round, table)
// without repeating a prior pairing: every player currently fixed there
// must be absent from player's played_with set.
func canPlace(n Node, round, table, player int) bool {
	return !n.PlayedWith(player).Intersects(n.Fixed(round, table))
}

// commit seats player at cell (round, table), updating every invariant
// field in a single, fixed order (the Commit operation in the design).
func commit(n Node, round, table, player int) {
	l := n.layout
	n.incPlayersPlaced()

	// A player sits at a given table at most once across rounds.
	for r2 := 0; r2 < l.RoundCount(); r2++ {
		n.Potential(r2, table).Clear(player)
	}
	// A player sits at one table per round.
	for t2 := 0; t2 < l.TableCount(); t2++ {
		n.Potential(round, t2).Clear(player)
	}

	n.PlayedInRound(round).Set(player)
	n.PlayedOnTableTotal(table).Set(player)

	cellFixed := n.Fixed(round, table)
	cellPotential := n.Potential(round, table)
	playedWith := n.PlayedWith(player)

	// Never seat player with someone already met — narrows future
	// commits at this cell only, since player is already chosen compatible.
	cellPotential.AndNot(playedWith)

	// Record the new pairing both ways before adding player to the cell.
	playedWith.Or(cellFixed)
	cellFixed.Iterate(func(other int) bool {
		n.PlayedWith(other).Set(player)
		return true
	})

	cellPotential.Set(player)
	cellFixed.Set(player)
}

// findHiddenSingles commits any player with exactly one possible cell in a
// given round (row) or table (column). Commits made while scanning one row
// or column feed back into later checks within the same pass, since every
// read below observes live state.
func findHiddenSingles(n Node) {
	l := n.layout

	scratch := make(PlayerSet, l.PlayerWords())
	for r := 0; r < l.RoundCount(); r++ {
		scratch.CopyFrom(n.PlayedInRound(r))
		negate(scratch)
		clearAbove(scratch, l.PlayerCount())
		scratch.Iterate(func(p int) bool {
			only := -1
			for t := 0; t < l.TableCount(); t++ {
				if n.Potential(r, t).Test(p) {
					if only == -1 {
						only = t
					} else {
						only = -2
						break
					}
				}
			}
			if only >= 0 && canPlace(n, r, only, p) {
				commit(n, r, only, p)
			}
			return true
		})
	}

	for t := 0; t < l.TableCount(); t++ {
		scratch.CopyFrom(n.PlayedOnTableTotal(t))
		negate(scratch)
		clearAbove(scratch, l.PlayerCount())
		scratch.Iterate(func(p int) bool {
			only := -1
			for r := 0; r < l.RoundCount(); r++ {
				if n.Potential(r, t).Test(p) {
					if only == -1 {
						only = r
					} else {
						only = -2
						break
					}
				}
			}
			if only >= 0 && canPlace(n, only, t, p) {
				commit(n, only, t, p)
			}
			return true
		})
	}
}

func negate(s PlayerSet) {
	for i := range s {
		s[i] = ^s[i]
	}
}

// clearAbove clears every bit at index >= limit within s.
func clearAbove(s PlayerSet, limit int) {
	full := limit / wordBits
	for i := full + 1; i < len(s); i++ {
		s[i] = 0
	}
	if full < len(s) {
		if rem := limit % wordBits; rem != 0 {
			s[full] &= (word(1) << uint(rem)) - 1
		} else {
			s[full] = 0
		}
	}
}
