package schedule

// InitialNode allocates and initializes the root node for this layout:
// round 0 is pre-seeded by placing players 0..size(0)-1 at table 0, the
// next size(1) players at table 1, and so on, committing those seats
// through the same Commit operation Step uses. to_explore is the full
// R*T bitmap minus row 0 — round 0's cells are closed by construction,
// never discovered by Step.
func (l *Layout) InitialNode() (Node, error) {
	buf := l.NewBuffer()
	n, err := l.Import(buf)
	if err != nil {
		return Node{}, err
	}
	l.initializeNode(n)
	return n, nil
}

func (l *Layout) initializeNode(n Node) {
	n.Reset()

	for r := 0; r < l.RoundCount(); r++ {
		for t := 0; t < l.TableCount(); t++ {
			fillOnes(n.Potential(r, t), l.PlayerCount())
		}
	}

	player := 0
	for t := 0; t < l.TableCount(); t++ {
		size := l.TableSize(t)
		for i := 0; i < size; i++ {
			commit(n, 0, t, player)
			player++
		}
		n.Potential(0, t).CopyFrom(n.Fixed(0, t))
	}

	te := n.ToExplore()
	for r := 1; r < l.RoundCount(); r++ {
		for t := 0; t < l.TableCount(); t++ {
			te.Set(r, t, true)
		}
	}
	n.setEmptyTables((l.RoundCount() - 1) * l.TableCount())
}
