package wire

import (
	"context"
	"errors"
	"sync"
)

// ErrConnClosed is returned by a ChanConn once either end has closed.
var ErrConnClosed = errors.New("wire: connection closed")

// ChanConn is an in-process Conn backed by Go channels, standing in for a
// real transport in tests that need two ends of a duplex channel without a
// socket (the coordinator's unit and integration tests use this in place of
// a WebsocketConn).
type ChanConn struct {
	out chan []byte
	in  chan []byte

	closeOnce *sync.Once
	closed    chan struct{} // shared by both halves of a pair
}

// NewChanConnPair returns two ends of one duplex in-process channel: writes
// to a are reads from b and vice versa. Closing either end unblocks any
// pending read/write on both, mirroring a real socket disconnect.
func NewChanConnPair(buffer int) (a, b *ChanConn) {
	ab := make(chan []byte, buffer)
	ba := make(chan []byte, buffer)
	closed := make(chan struct{})
	once := &sync.Once{}
	a = &ChanConn{out: ab, in: ba, closed: closed, closeOnce: once}
	b = &ChanConn{out: ba, in: ab, closed: closed, closeOnce: once}
	return a, b
}

// ReadMessage blocks until a message arrives, ctx is done, or the
// connection is closed by either end.
func (c *ChanConn) ReadMessage(ctx context.Context) ([]byte, error) {
	select {
	case msg, ok := <-c.in:
		if !ok {
			return nil, ErrConnClosed
		}
		return msg, nil
	case <-c.closed:
		return nil, ErrConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WriteMessage enqueues data for the peer, or fails if either side has
// closed or ctx is done first.
func (c *ChanConn) WriteMessage(ctx context.Context, data []byte) error {
	select {
	case c.out <- data:
		return nil
	case <-c.closed:
		return ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the pair closed, unblocking any pending read/write on either
// end.
func (c *ChanConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}
