package coordinator

import (
	"context"
	"encoding/binary"
	"sort"
	"sync"
)

// WorkerID identifies one connected worker. The server package assigns
// these; the frontier only ever uses them as opaque map keys.
type WorkerID uint64

// Node is the in-memory representation of a frontier node: the raw word
// buffer, unpacked once off the wire (wire.DecodeFrontierNode). Layout
// offset 0 is always players_placed (pkg/schedule's Layout always places it
// there), so the frontier can read the sort key without importing
// pkg/schedule at all.
type Node []uint64

func (n Node) playersPlaced() int {
	if len(n) == 0 {
		return 0
	}
	return int(n[0])
}

// key returns a comparable fingerprint of n for claimed-set membership and
// base/child equality checks.
func (n Node) key() string {
	buf := make([]byte, 8*len(n))
	for i, w := range n {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], w)
	}
	return string(buf)
}

type unclaimedEntry struct {
	node Node
}

type waiter struct {
	worker WorkerID
	reply  chan Node
}

type clientState struct {
	claimed map[string]Node
}

// Frontier is the per-problem coordinator state: unclaimed nodes sorted
// ascending by players_placed, the set of connected clients each with its
// own claimed set, and a FIFO of waiters blocked on Request (spec.md §4.F).
type Frontier struct {
	mu        sync.Mutex
	unclaimed []unclaimedEntry
	clients   map[WorkerID]*clientState
	waiters   []waiter
}

// NewFrontier creates a frontier seeded with one root node (the problem's
// initial node).
func NewFrontier(root Node) *Frontier {
	return &Frontier{
		unclaimed: []unclaimedEntry{{node: root}},
		clients:   make(map[WorkerID]*clientState),
	}
}

// Connect registers worker as a connected client with an empty claimed set.
// Calling it again for an already-connected worker is a no-op.
func (f *Frontier) Connect(worker WorkerID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[worker]; !ok {
		f.clients[worker] = &clientState{claimed: make(map[string]Node)}
	}
}

// Request hands worker a node: the highest-players_placed unclaimed node,
// if any. If none is available it blocks until one arrives or ctx is
// cancelled, unless no client at all remains, in which case it fails with
// ErrCompleted immediately.
func (f *Frontier) Request(ctx context.Context, worker WorkerID) (Node, error) {
	f.mu.Lock()
	if n, ok := f.popHighest(); ok {
		f.claim(worker, n)
		f.mu.Unlock()
		return n, nil
	}
	if len(f.clients) == 0 {
		f.mu.Unlock()
		return nil, ErrCompleted
	}
	reply := make(chan Node, 1)
	f.waiters = append(f.waiters, waiter{worker: worker, reply: reply})
	f.mu.Unlock()

	select {
	case n, ok := <-reply:
		if !ok {
			return nil, ErrCompleted
		}
		return n, nil
	case <-ctx.Done():
		f.removeWaiter(reply)
		return nil, ctx.Err()
	}
}

// popHighest removes and returns the unclaimed node with the greatest
// players_placed (the back of the ascending-sorted slice), so the most
// fully seated nodes are handed out first (spec.md §4.F).
func (f *Frontier) popHighest() (Node, bool) {
	if len(f.unclaimed) == 0 {
		return nil, false
	}
	last := len(f.unclaimed) - 1
	n := f.unclaimed[last].node
	f.unclaimed = f.unclaimed[:last]
	return n, true
}

func (f *Frontier) claim(worker WorkerID, n Node) {
	c := f.clients[worker]
	if c == nil {
		c = &clientState{claimed: make(map[string]Node)}
		f.clients[worker] = c
	}
	c.claimed[n.key()] = n
}

func (f *Frontier) removeWaiter(reply chan Node) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.waiters {
		if w.reply == reply {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			return
		}
	}
}

// insertUnclaimed inserts n into the ascending-by-players_placed unclaimed
// slice at its sorted position.
func (f *Frontier) insertUnclaimed(n Node) {
	pp := n.playersPlaced()
	i := sort.Search(len(f.unclaimed), func(i int) bool {
		return f.unclaimed[i].node.playersPlaced() >= pp
	})
	f.unclaimed = append(f.unclaimed, unclaimedEntry{})
	copy(f.unclaimed[i+1:], f.unclaimed[i:])
	f.unclaimed[i] = unclaimedEntry{node: n}
}

// Submit processes one worker's batch result: base must be in worker's
// claimed set (removed on success); each child is either handed directly to
// the longest-waiting waiter or inserted into unclaimed. A child equal to
// base is a protocol error.
func (f *Frontier) Submit(worker WorkerID, base Node, children []Node) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c := f.clients[worker]
	if c == nil {
		return protocolErrorf("submit from unknown client")
	}
	baseKey := base.key()
	if _, ok := c.claimed[baseKey]; !ok {
		return protocolErrorf("submit for a base not in this client's claimed set")
	}
	delete(c.claimed, baseKey)

	for _, child := range children {
		if child.key() == baseKey {
			return protocolErrorf("submitted child equal to base")
		}
		f.dispatchOrQueue(child)
	}
	return nil
}

func (f *Frontier) dispatchOrQueue(child Node) {
	if len(f.waiters) > 0 {
		w := f.waiters[0]
		f.waiters = f.waiters[1:]
		f.claim(w.worker, child)
		w.reply <- child
		return
	}
	f.insertUnclaimed(child)
}

// Release moves every node claimed by worker back into unclaimed and
// forgets the worker, resolving any of its own outstanding waiter entries
// to Completed (spec.md §5, "Cancellation").
func (f *Frontier) Release(worker WorkerID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.clients[worker]
	if ok {
		for _, n := range c.claimed {
			f.insertUnclaimed(n)
		}
		delete(f.clients, worker)
	}

	remaining := f.waiters[:0]
	for _, w := range f.waiters {
		if w.worker == worker {
			close(w.reply)
			continue
		}
		remaining = append(remaining, w)
	}
	f.waiters = remaining
}

// ClaimedCount returns the number of nodes currently out for expansion by
// worker.
func (f *Frontier) ClaimedCount(worker WorkerID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[worker]
	if !ok {
		return 0
	}
	return len(c.claimed)
}

// Stats reports the current counts of unclaimed nodes, connected clients,
// total claimed nodes across all clients, and waiting requests.
type Stats struct {
	Unclaimed     int
	Clients       int
	TotalClaimed  int
	Waiters       int
}

// Stats returns a snapshot of the frontier's current load.
func (f *Frontier) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, c := range f.clients {
		total += len(c.claimed)
	}
	return Stats{
		Unclaimed:    len(f.unclaimed),
		Clients:      len(f.clients),
		TotalClaimed: total,
		Waiters:      len(f.waiters),
	}
}
