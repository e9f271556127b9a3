package wire

import (
	"encoding/binary"
	"fmt"
)

// ControlRequestWord is the literal ASCII control payload a client sends to
// ping the coordinator to refill its buffer.
const ControlRequestWord = "request"

// EncodeControlRequest returns the one frame a client sends to ask the
// coordinator for more frontier nodes.
func EncodeControlRequest() []byte {
	return EncodeFrame(KindControlRequest, []byte(ControlRequestWord))
}

// IsControlRequest reports whether payload is the control request word.
func IsControlRequest(payload []byte) bool {
	return string(payload) == ControlRequestWord
}

// ProblemInit is the first message a client sends: the problem description.
type ProblemInit struct {
	Tables []uint32
	Rounds uint32
}

// EncodeProblemInit serializes p as a count-prefixed uint32 array followed
// by the round count, all little-endian.
func EncodeProblemInit(p ProblemInit) []byte {
	buf := make([]byte, 4+4*len(p.Tables)+4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(p.Tables)))
	off := 4
	for _, tbl := range p.Tables {
		binary.LittleEndian.PutUint32(buf[off:off+4], tbl)
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], p.Rounds)
	return buf
}

// DecodeProblemInit parses a ProblemInit payload produced by
// EncodeProblemInit.
func DecodeProblemInit(payload []byte) (ProblemInit, error) {
	if len(payload) < 4 {
		return ProblemInit{}, fmt.Errorf("wire: problem init payload too short")
	}
	count := binary.LittleEndian.Uint32(payload[0:4])
	want := 4 + 4*int(count) + 4
	if len(payload) != want {
		return ProblemInit{}, fmt.Errorf("wire: problem init payload length %d, want %d", len(payload), want)
	}
	tables := make([]uint32, count)
	off := 4
	for i := range tables {
		tables[i] = binary.LittleEndian.Uint32(payload[off : off+4])
		off += 4
	}
	rounds := binary.LittleEndian.Uint32(payload[off : off+4])
	return ProblemInit{Tables: tables, Rounds: rounds}, nil
}

// EncodeFrontierNode serializes a node's raw word buffer verbatim — the
// wire format of a node is exactly its backing []uint64, little-endian,
// with length implied by the problem layout (spec.md §3/§4.G).
func EncodeFrontierNode(words []uint64) []byte {
	buf := make([]byte, 8*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], w)
	}
	return buf
}

// DecodeFrontierNode parses a node buffer of exactly wordCount words.
// Readers must reject frames of the wrong size (spec.md §6).
func DecodeFrontierNode(payload []byte, wordCount int) ([]uint64, error) {
	if len(payload) != 8*wordCount {
		return nil, fmt.Errorf("wire: frontier node payload length %d, want %d", len(payload), 8*wordCount)
	}
	words := make([]uint64, wordCount)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(payload[i*8 : i*8+8])
	}
	return words, nil
}

// Stats is the per-batch step/time counters a worker reports alongside a
// batch result.
type Stats struct {
	Steps        uint64
	ElapsedNanos uint64
}

// BatchResult is the message a worker sends back for one expanded frontier
// node: the base node it was given, its children (including the residual
// parent at every depth, per spec.md §4.E), and a reserved Notable slice
// that the worker never populates (spec.md §9).
type BatchResult struct {
	Base     []uint64
	Children [][]uint64
	Notable  [][]uint64
	Stats    Stats
}

// EncodeBatchResult serializes a BatchResult. wordCount is the layout's
// per-node word count, constant for the life of one problem.
func EncodeBatchResult(b BatchResult, wordCount int) []byte {
	size := 8 * wordCount // base
	size += 4 + len(b.Children)*8*wordCount
	size += 4 + len(b.Notable)*8*wordCount
	size += 16 // stats
	buf := make([]byte, size)
	off := 0

	off += putNode(buf[off:], b.Base)

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(b.Children)))
	off += 4
	for _, child := range b.Children {
		off += putNode(buf[off:], child)
	}

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(b.Notable)))
	off += 4
	for _, n := range b.Notable {
		off += putNode(buf[off:], n)
	}

	binary.LittleEndian.PutUint64(buf[off:off+8], b.Stats.Steps)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:off+8], b.Stats.ElapsedNanos)
	off += 8

	return buf[:off]
}

func putNode(dst []byte, words []uint64) int {
	for i, w := range words {
		binary.LittleEndian.PutUint64(dst[i*8:i*8+8], w)
	}
	return 8 * len(words)
}

// DecodeBatchResult parses a BatchResult payload for a problem whose node
// buffers are wordCount words long.
func DecodeBatchResult(payload []byte, wordCount int) (BatchResult, error) {
	nodeBytes := 8 * wordCount
	readNode := func(off int) ([]uint64, int, error) {
		if off+nodeBytes > len(payload) {
			return nil, 0, fmt.Errorf("wire: batch result truncated reading a node")
		}
		words := make([]uint64, wordCount)
		for i := range words {
			words[i] = binary.LittleEndian.Uint64(payload[off+i*8 : off+i*8+8])
		}
		return words, off + nodeBytes, nil
	}
	readCountedNodes := func(off int) ([][]uint64, int, error) {
		if off+4 > len(payload) {
			return nil, 0, fmt.Errorf("wire: batch result truncated reading a count")
		}
		count := binary.LittleEndian.Uint32(payload[off : off+4])
		off += 4
		out := make([][]uint64, count)
		for i := range out {
			var err error
			out[i], off, err = readNode(off)
			if err != nil {
				return nil, 0, err
			}
		}
		return out, off, nil
	}

	var (
		b   BatchResult
		off int
		err error
	)
	b.Base, off, err = readNode(0)
	if err != nil {
		return BatchResult{}, err
	}
	b.Children, off, err = readCountedNodes(off)
	if err != nil {
		return BatchResult{}, err
	}
	b.Notable, off, err = readCountedNodes(off)
	if err != nil {
		return BatchResult{}, err
	}
	if off+16 != len(payload) {
		return BatchResult{}, fmt.Errorf("wire: batch result has %d trailing bytes", len(payload)-off-16)
	}
	b.Stats.Steps = binary.LittleEndian.Uint64(payload[off : off+8])
	b.Stats.ElapsedNanos = binary.LittleEndian.Uint64(payload[off+8 : off+16])
	return b, nil
}
