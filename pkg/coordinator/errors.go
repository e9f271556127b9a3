// Package coordinator implements the frontier coordinator (spec component
// F) and the server half of the dispatcher (component H): the central
// authority a problem's workers connect to, handing out frontier nodes on a
// least-loaded basis and reclaiming them on disconnect or timeout.
package coordinator

import (
	"errors"
	"fmt"
)

// ErrCompleted is returned by Request when there is no more work and no
// client left to produce any: the coordinator has finished this problem.
var ErrCompleted = errors.New("coordinator: completed")

// ErrTimeout is returned when a client's heartbeat exceeds the configured
// timeout.
var ErrTimeout = errors.New("coordinator: client heartbeat timeout")

// ProtocolError wraps a fatal, connection-ending protocol violation: a
// malformed frame, a wrong-length node, a submitted child equal to its
// base, or a submit referencing an unknown base.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("coordinator: protocol error: %s", e.Detail)
}

func protocolErrorf(format string, args ...any) error {
	return &ProtocolError{Detail: fmt.Sprintf(format, args...)}
}
