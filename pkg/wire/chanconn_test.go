package wire

import (
	"context"
	"testing"
	"time"
)

func TestChanConnPairSendReceive(t *testing.T) {
	a, b := NewChanConnPair(1)
	ctx := context.Background()

	if err := Send(ctx, a, KindProblemInit, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	kind, payload, err := Receive(ctx, b)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if kind != KindProblemInit || len(payload) != 3 {
		t.Fatalf("got (%v, %v)", kind, payload)
	}
}

func TestChanConnCloseUnblocksRead(t *testing.T) {
	a, b := NewChanConnPair(0)
	_ = b

	done := make(chan error, 1)
	go func() {
		_, err := a.ReadMessage(context.Background())
		done <- err
	}()

	a.Close()
	select {
	case err := <-done:
		if err != ErrConnClosed {
			t.Fatalf("got err %v, want ErrConnClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("ReadMessage did not unblock after Close")
	}
}

func TestChanConnContextCancelUnblocksRead(t *testing.T) {
	a, _ := NewChanConnPair(0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := a.ReadMessage(ctx)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("got err %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("ReadMessage did not unblock after cancel")
	}
}
