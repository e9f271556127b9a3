package coordinator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playfair/tablesched/pkg/schedule"
	"github.com/playfair/tablesched/pkg/wire"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultClientBufferSize is how many un-acknowledged frontier nodes the
// server keeps outstanding per client unless overridden.
const DefaultClientBufferSize = 4

// DefaultHeartbeatTimeout is how long a client may go without sending
// anything before the coordinator closes its connection as Timeout.
const DefaultHeartbeatTimeout = 30 * time.Second

// Server is the coordinator process: it owns one Frontier per distinct
// (tables, rounds) problem and drives the per-client send/receive/heartbeat
// loops described in spec.md §4.F-H.
type Server struct {
	Log              *logrus.Logger
	ClientBufferSize int
	HeartbeatTimeout time.Duration

	mu           sync.Mutex
	problems     map[string]*problemState
	nextClientID uint64

	// sendSem, if set via SetMaxInFlightSends, bounds the total number of
	// FrontierNode writes in flight across every client at once — an
	// ambient safety valve the protocol doesn't require (nil, the
	// default, leaves sends unbounded).
	sendSem *semaphore.Weighted
}

// SetMaxInFlightSends bounds the coordinator's total outstanding
// FrontierNode writes across all clients to n. Call before serving any
// connection; it is not safe to change concurrently with HandleConn.
func (s *Server) SetMaxInFlightSends(n int64) {
	if n <= 0 {
		s.sendSem = nil
		return
	}
	s.sendSem = semaphore.NewWeighted(n)
}

type problemState struct {
	layout   *schedule.Layout
	frontier *Frontier
}

// NewServer builds a Server with the given settings; a nil log, or a
// non-positive clientBufferSize or heartbeatTimeout, falls back to the
// package default.
func NewServer(log *logrus.Logger, clientBufferSize int, heartbeatTimeout time.Duration) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if clientBufferSize <= 0 {
		clientBufferSize = DefaultClientBufferSize
	}
	if heartbeatTimeout <= 0 {
		heartbeatTimeout = DefaultHeartbeatTimeout
	}
	return &Server{
		Log:              log,
		ClientBufferSize: clientBufferSize,
		HeartbeatTimeout: heartbeatTimeout,
		problems:         make(map[string]*problemState),
	}
}

func problemKey(tables []int, rounds int) string {
	return fmt.Sprintf("%v/%d", tables, rounds)
}

func (s *Server) problemFor(tables []int, rounds int) (*problemState, error) {
	key := problemKey(tables, rounds)

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.problems[key]; ok {
		return p, nil
	}

	layout, err := schedule.NewLayout(tables, rounds)
	if err != nil {
		return nil, err
	}
	root, err := layout.InitialNode()
	if err != nil {
		return nil, err
	}
	p := &problemState{
		layout:   layout,
		frontier: NewFrontier(Node(append([]uint64(nil), root.Buffer()...))),
	}
	s.problems[key] = p
	return p, nil
}

// HandleConn drives one client connection end to end: reads the initial
// problem description, then runs the send/receive/heartbeat loops until the
// connection ends, ensuring the client's claimed nodes are always released
// back to the frontier before returning.
func (s *Server) HandleConn(ctx context.Context, conn wire.Conn) error {
	clientID := WorkerID(atomic.AddUint64(&s.nextClientID, 1))
	log := s.Log.WithField("client", clientID)
	log.Info("client connected")

	kind, payload, err := wire.Receive(ctx, conn)
	if err != nil {
		return fmt.Errorf("coordinator: reading problem init: %w", err)
	}
	if kind != wire.KindProblemInit {
		return protocolErrorf("expected ProblemInit as first message, got %v", kind)
	}
	init, err := wire.DecodeProblemInit(payload)
	if err != nil {
		return protocolErrorf("decoding ProblemInit: %v", err)
	}
	tables := make([]int, len(init.Tables))
	for i, t := range init.Tables {
		tables[i] = int(t)
	}
	problem, err := s.problemFor(tables, int(init.Rounds))
	if err != nil {
		return fmt.Errorf("coordinator: %w", err)
	}
	wordCount := problem.layout.TotalWords()
	frontier := problem.frontier
	frontier.Connect(clientID)

	var stats ClientStats
	var lastActivity atomic.Int64
	lastActivity.Store(time.Now().UnixNano())

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(connCtx)
	refill := make(chan struct{}, s.ClientBufferSize+1)
	refill <- struct{}{} // wake (i): initial connection

	g.Go(func() error {
		return s.sendLoop(gctx, conn, frontier, clientID, refill, &stats)
	})
	g.Go(func() error {
		return s.receiveLoop(gctx, conn, frontier, clientID, wordCount, refill, &stats, &lastActivity)
	})
	g.Go(func() error {
		return s.heartbeat(gctx, &lastActivity, s.HeartbeatTimeout)
	})

	err = g.Wait()
	frontier.Release(clientID)
	conn.Close()
	snap := stats.Snapshot()
	log.WithFields(logrus.Fields{
		"bytes_sent": snap.BytesSent, "bytes_received": snap.BytesReceived,
		"batches": snap.Batches, "steps": snap.Steps, "err": err,
	}).Info("client disconnected")

	if err == ErrCompleted {
		return nil
	}
	return err
}

// sendLoop pushes frontier nodes to the client whenever its claimed count is
// below ClientBufferSize, waking on refill (spec.md §4.F, "Workers receive
// nodes proactively").
func (s *Server) sendLoop(ctx context.Context, conn wire.Conn, frontier *Frontier, worker WorkerID, refill <-chan struct{}, stats *ClientStats) error {
	for {
		select {
		case <-refill:
		case <-ctx.Done():
			return ctx.Err()
		}

		for frontier.ClaimedCount(worker) < s.ClientBufferSize {
			node, err := frontier.Request(ctx, worker)
			if err != nil {
				return err
			}
			if s.sendSem != nil {
				if err := s.sendSem.Acquire(ctx, 1); err != nil {
					return err
				}
			}
			payload := wire.EncodeFrontierNode(node)
			frame := wire.EncodeFrame(wire.KindFrontierNode, payload)
			err = conn.WriteMessage(ctx, frame)
			if s.sendSem != nil {
				s.sendSem.Release(1)
			}
			if err != nil {
				return err
			}
			stats.addSent(len(frame))
		}
	}
}

// receiveLoop reads batch results and control-request pings from the
// client, submitting results to the frontier and nudging sendLoop to
// refill on every message (wakes (ii) and (iii)).
func (s *Server) receiveLoop(ctx context.Context, conn wire.Conn, frontier *Frontier, worker WorkerID, wordCount int, refill chan<- struct{}, stats *ClientStats, lastActivity *atomic.Int64) error {
	for {
		raw, err := conn.ReadMessage(ctx)
		if err != nil {
			return err
		}
		stats.addReceived(len(raw))
		lastActivity.Store(time.Now().UnixNano())

		kind, payload, err := wire.DecodeFrame(raw)
		if err != nil {
			return protocolErrorf("decoding frame: %v", err)
		}

		switch kind {
		case wire.KindControlRequest:
			if !wire.IsControlRequest(payload) {
				return protocolErrorf("malformed control frame")
			}
		case wire.KindBatchResult:
			batch, err := wire.DecodeBatchResult(payload, wordCount)
			if err != nil {
				return protocolErrorf("decoding batch result: %v", err)
			}
			stats.addBatch(batch.Stats.Steps)
			children := make([]Node, len(batch.Children))
			for i, c := range batch.Children {
				children[i] = Node(c)
			}
			if err := frontier.Submit(worker, Node(batch.Base), children); err != nil {
				return err
			}
		default:
			return protocolErrorf("unexpected message kind %v", kind)
		}

		select {
		case refill <- struct{}{}:
		default:
		}
	}
}

