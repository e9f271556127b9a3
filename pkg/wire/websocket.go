package wire

import (
	"context"

	"github.com/gorilla/websocket"
)

// WebsocketConn adapts a *websocket.Conn to the Conn interface, always
// sending and expecting binary messages (one message per frame).
type WebsocketConn struct {
	ws *websocket.Conn
}

// NewWebsocketConn wraps an established websocket connection.
func NewWebsocketConn(ws *websocket.Conn) *WebsocketConn {
	return &WebsocketConn{ws: ws}
}

// ReadMessage blocks until one binary message arrives, or ctx is done.
// gorilla/websocket has no native context-aware read, so a cancellation
// closes the underlying connection to unblock it, matching the original
// solver's disconnect-is-the-only-cancellation-signal model (spec.md §5).
func (c *WebsocketConn) ReadMessage(ctx context.Context) ([]byte, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.ws.Close()
		case <-done:
		}
	}()
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return data, nil
}

// WriteMessage sends data as one binary message.
func (c *WebsocketConn) WriteMessage(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}

// Close closes the underlying websocket connection.
func (c *WebsocketConn) Close() error {
	return c.ws.Close()
}
