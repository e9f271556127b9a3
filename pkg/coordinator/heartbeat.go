package coordinator

import (
	"context"
	"sync/atomic"
	"time"
)

// heartbeat terminates the connection with ErrTimeout if no message has
// been observed from the client within timeout, mirroring
// original_source/server/src/api.rs's per-client timeout future: a ticker
// reset implicitly by checking elapsed time against the last observed
// activity rather than resetting a timer on every frame.
func (s *Server) heartbeat(ctx context.Context, lastActivity *atomic.Int64, timeout time.Duration) error {
	ticker := time.NewTicker(timeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			elapsed := time.Since(time.Unix(0, lastActivity.Load()))
			if elapsed > timeout {
				return ErrTimeout
			}
		}
	}
}
