package coordinator

import "sync/atomic"

// ClientStats accumulates the per-client byte and step counters the
// original solver tracked on each Client (add_sent_bytes/add_recieved_bytes
// in the Rust source): diagnostic only, never consulted by the protocol
// itself.
type ClientStats struct {
	bytesSent     int64
	bytesReceived int64
	steps         int64
	batches       int64
}

func (c *ClientStats) addSent(n int)     { atomic.AddInt64(&c.bytesSent, int64(n)) }
func (c *ClientStats) addReceived(n int) { atomic.AddInt64(&c.bytesReceived, int64(n)) }
func (c *ClientStats) addBatch(steps uint64) {
	atomic.AddInt64(&c.steps, int64(steps))
	atomic.AddInt64(&c.batches, 1)
}

// Snapshot is a point-in-time copy of a ClientStats, safe to read without
// further synchronization.
type Snapshot struct {
	BytesSent     int64
	BytesReceived int64
	Steps         int64
	Batches       int64
}

// Snapshot reads the current counters.
func (c *ClientStats) Snapshot() Snapshot {
	return Snapshot{
		BytesSent:     atomic.LoadInt64(&c.bytesSent),
		BytesReceived: atomic.LoadInt64(&c.bytesReceived),
		Steps:         atomic.LoadInt64(&c.steps),
		Batches:       atomic.LoadInt64(&c.batches),
	}
}
