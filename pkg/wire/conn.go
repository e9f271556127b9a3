package wire

import "context"

// Conn is the abstract duplex message channel the protocol runs over
// (spec.md §4.G calls the transport "abstract" — in practice a WebSocket
// over TCP, but nothing above this package knows that). Each ReadMessage
// call returns exactly one whole frame as produced by EncodeFrame; each
// WriteMessage call sends exactly one.
type Conn interface {
	ReadMessage(ctx context.Context) ([]byte, error)
	WriteMessage(ctx context.Context, data []byte) error
	Close() error
}

// Send encodes kind/payload into a frame and writes it to conn.
func Send(ctx context.Context, conn Conn, kind Kind, payload []byte) error {
	return conn.WriteMessage(ctx, EncodeFrame(kind, payload))
}

// Receive reads one frame from conn and decodes it.
func Receive(ctx context.Context, conn Conn) (Kind, []byte, error) {
	raw, err := conn.ReadMessage(ctx)
	if err != nil {
		return 0, nil, err
	}
	return DecodeFrame(raw)
}
