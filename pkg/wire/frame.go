// Package wire implements the binary framing and message codecs for the
// coordinator/worker protocol (spec component G): a duplex message channel
// carrying one framed payload per logical message, multi-byte integers
// little-endian throughout. The abstract duplex channel is Conn; WebsocketConn
// wraps a *websocket.Conn (github.com/gorilla/websocket) to satisfy it, the
// same transport the original solver used over TCP.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Kind tags the payload that follows a frame header.
type Kind byte

const (
	// KindProblemInit is the first message a client sends: the problem
	// description { tables, rounds }.
	KindProblemInit Kind = iota + 1
	// KindFrontierNode carries an opaque node word buffer, server to
	// client.
	KindFrontierNode
	// KindBatchResult carries a worker's expansion result, client to
	// server.
	KindBatchResult
	// KindControlRequest is the literal ASCII control word "request",
	// pinging the server to refill a client's buffer.
	KindControlRequest
)

func (k Kind) String() string {
	switch k {
	case KindProblemInit:
		return "ProblemInit"
	case KindFrontierNode:
		return "FrontierNode"
	case KindBatchResult:
		return "BatchResult"
	case KindControlRequest:
		return "ControlRequest"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// MaxFramePayload bounds a single frame's payload to guard against a
// malformed or hostile length prefix forcing an unbounded allocation.
const MaxFramePayload = 64 << 20 // 64 MiB

// ErrFrameTooLarge is returned by DecodeFrame when a frame's declared
// length exceeds MaxFramePayload.
var ErrFrameTooLarge = errors.New("wire: frame payload too large")

// ErrShortFrame is returned when a byte slice is too short to contain a
// valid frame header.
var ErrShortFrame = errors.New("wire: frame shorter than header")

// EncodeFrame serializes kind and payload into one length-prefixed frame:
// one byte of kind, a little-endian uint32 payload length, then the
// payload itself.
func EncodeFrame(kind Kind, payload []byte) []byte {
	buf := make([]byte, 1+4+len(payload))
	buf[0] = byte(kind)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(payload)))
	copy(buf[5:], payload)
	return buf
}

// DecodeFrame parses one frame previously produced by EncodeFrame, as
// delivered whole by the underlying duplex channel (one wire message is
// always exactly one frame — the transport, not this package, handles
// message boundaries).
func DecodeFrame(raw []byte) (Kind, []byte, error) {
	if len(raw) < 5 {
		return 0, nil, ErrShortFrame
	}
	kind := Kind(raw[0])
	length := binary.LittleEndian.Uint32(raw[1:5])
	if length > MaxFramePayload {
		return 0, nil, ErrFrameTooLarge
	}
	if uint32(len(raw)-5) != length {
		return 0, nil, fmt.Errorf("wire: declared length %d does not match payload length %d", length, len(raw)-5)
	}
	return kind, raw[5:], nil
}

// ReadFrame reads and decodes exactly one frame from r, where r delivers
// whole frames per Read call (used by stream-oriented transports in tests;
// Conn implementations normally hand DecodeFrame a whole message instead).
func ReadFrame(r io.Reader) (Kind, []byte, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	length := binary.LittleEndian.Uint32(header[1:5])
	if length > MaxFramePayload {
		return 0, nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return Kind(header[0]), payload, nil
}

// WriteFrame writes one EncodeFrame-shaped frame to w.
func WriteFrame(w io.Writer, kind Kind, payload []byte) error {
	_, err := w.Write(EncodeFrame(kind, payload))
	return err
}
