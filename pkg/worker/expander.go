// Package worker implements the per-process search loop (spec component E)
// and the client-side least-loaded dispatcher (component H): a fixed pool
// of goroutines, one per hardware thread by default, each repeatedly
// draining constraint propagation steps from a frontier node until either a
// step budget is exhausted, the node's subtree is fully explored, or a
// complete schedule is found.
//
// Like the teacher's now-removed internal/parallel.WorkerPool, this is a
// bounded set of goroutines each draining their own inbound queue with
// graceful shutdown via errgroup. It is a fixed-size pool rather than that
// pool's dynamically-scaled one: the domain calls for exactly as many
// expander goroutines as original_source/client/src/main.rs spawns (one per
// num_cpus::get()), and there is no queue-depth signal here to scale on.
package worker

import (
	"time"

	"github.com/playfair/tablesched/pkg/schedule"
)

// Result is one expansion's outcome: the residual stack of nodes still
// left to explore under base (one per depth reached, base's immediate
// residual first), or a found solution, or neither if base's whole subtree
// was exhausted within the step budget.
type Result struct {
	Base     []uint64
	Children [][]uint64
	Solved   bool
	Solution []uint64
	Steps    int
	Elapsed  time.Duration
}

// Expander owns one private, growable depth buffer (the stack `B` from
// spec.md §4.E) and expands one frontier node at a time. It is not safe for
// concurrent use; Pool gives each goroutine its own Expander.
type Expander struct {
	layout *schedule.Layout
	stack  []uint64 // depth-indexed scratch buffer, (depth+1) nodes wide at any time
}

// NewExpander returns an Expander for layout, its stack pre-sized for a
// shallow search (it grows on demand for deeper ones).
func NewExpander(layout *schedule.Layout) *Expander {
	wordCount := layout.TotalWords()
	return &Expander{
		layout: layout,
		stack:  make([]uint64, 4*wordCount),
	}
}

// Expand drives base through repeated schedule.Step calls for up to
// stepBudget steps, exactly mirroring original_source/client/src/main.rs's
// solving_thread: Branch descends one level into a fresh scratch node,
// DeadEnd at depth zero empties the whole subtree, DeadEnd deeper just
// backtracks one level, and Done reports a complete solution.
//
// A found solution and an emptied subtree both report zero children: there
// is nothing left under base for the frontier to redistribute either way,
// only the reason differs (a fully determined leaf vs. a proven
// contradiction everywhere below it).
func (e *Expander) Expand(base []uint64, stepBudget int) (Result, error) {
	wordCount := e.layout.TotalWords()
	e.ensureCapacity(2 * wordCount)
	copy(e.stack[:wordCount], base)

	start := time.Now()
	depth := 0
	steps := 0
	emptied := false
	solved := false

	for steps <= stepBudget {
		e.ensureCapacity((depth + 2) * wordCount)

		in, err := e.layout.Import(e.stack[depth*wordCount : (depth+1)*wordCount])
		if err != nil {
			return Result{}, err
		}
		out, err := e.layout.Import(e.stack[(depth+1)*wordCount : (depth+2)*wordCount])
		if err != nil {
			return Result{}, err
		}

		switch schedule.Step(in, out) {
		case schedule.Done:
			solved = true
		case schedule.Branch:
			depth++
		case schedule.DeadEnd:
			if depth == 0 {
				emptied = true
			} else {
				depth--
			}
		}

		if solved || emptied {
			break
		}
		steps++
	}

	result := Result{
		Base:    base,
		Steps:   steps,
		Elapsed: time.Since(start),
	}
	switch {
	case solved:
		result.Solved = true
		result.Solution = append([]uint64(nil), e.stack[depth*wordCount:(depth+1)*wordCount]...)
	case emptied:
		// no children: the whole subtree under base is exhausted
	default:
		result.Children = make([][]uint64, depth+1)
		for i := 0; i <= depth; i++ {
			result.Children[i] = append([]uint64(nil), e.stack[i*wordCount:(i+1)*wordCount]...)
		}
	}
	return result, nil
}

func (e *Expander) ensureCapacity(words int) {
	if len(e.stack) >= words {
		return
	}
	grown := make([]uint64, words)
	copy(grown, e.stack)
	e.stack = grown
}
