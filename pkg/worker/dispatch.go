package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/playfair/tablesched/pkg/schedule"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultStepsPerSync is the number of propagation steps an expander takes
// on one claimed node before reporting back, per spec.md §6 and
// original_source/client/src/main.rs's `--iterations-per-sync` default.
const DefaultStepsPerSync = 10000

// lane is one expander goroutine's private inbound queue plus the atomic
// depth counter Dispatch uses for least-loaded selection, the Go analog of
// original_source/client/src/main.rs's per-thread
// (std::sync::mpsc::Sender, Arc<AtomicUsize>) pair.
type lane struct {
	inbound   chan []uint64
	queueSize atomic.Int64
	expander  *Expander
}

// Pool is the fixed-size worker-thread pool: one lane per hardware thread
// by default, each draining its own inbound queue and reporting results on
// one shared channel.
type Pool struct {
	layout       *schedule.Layout
	lanes        []*lane
	results      chan Result
	stepsPerSync int
	log          *logrus.Logger
}

// NewPool builds a Pool with threads lanes (runtime.NumCPU() if threads <=
// 0) and the given per-claim step budget (DefaultStepsPerSync if <= 0).
func NewPool(layout *schedule.Layout, threads, stepsPerSync int, log *logrus.Logger) *Pool {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if stepsPerSync <= 0 {
		stepsPerSync = DefaultStepsPerSync
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	lanes := make([]*lane, threads)
	for i := range lanes {
		lanes[i] = &lane{
			inbound:  make(chan []uint64, 1),
			expander: NewExpander(layout),
		}
	}
	return &Pool{
		layout:       layout,
		lanes:        lanes,
		results:      make(chan Result, threads),
		stepsPerSync: stepsPerSync,
		log:          log,
	}
}

// Results returns the channel every lane publishes its Expand results to.
func (p *Pool) Results() <-chan Result { return p.results }

// Dispatch hands node to the least-loaded lane (the fewest nodes currently
// queued), matching original_source/client/src/main.rs's
// `threads.iter().min_by_key(queue_size)` selection.
func (p *Pool) Dispatch(ctx context.Context, node []uint64) error {
	best := p.lanes[0]
	for _, l := range p.lanes[1:] {
		if l.queueSize.Load() < best.queueSize.Load() {
			best = l
		}
	}
	best.queueSize.Add(1)
	select {
	case best.inbound <- node:
		return nil
	case <-ctx.Done():
		best.queueSize.Add(-1)
		return ctx.Err()
	}
}

// Run starts every lane's expansion loop and blocks until ctx is cancelled
// or one lane's loop exits with an error; it closes results before
// returning. Lanes are joined with errgroup, replacing the teacher's manual
// sync.WaitGroup + shutdownChan pair (pkg/coordinator.Server.HandleConn
// uses the same pattern for its per-client pumps).
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range p.lanes {
		l := l
		g.Go(func() error { return p.runLane(gctx, l) })
	}
	err := g.Wait()
	close(p.results)
	return err
}

func (p *Pool) runLane(ctx context.Context, l *lane) error {
	for {
		select {
		case node := <-l.inbound:
			l.queueSize.Add(-1)
			result, err := l.expander.Expand(node, p.stepsPerSync)
			if err != nil {
				return fmt.Errorf("worker: expanding node: %w", err)
			}
			if result.Solved {
				p.log.WithField("steps", result.Steps).Info("found a complete schedule")
			}
			select {
			case p.results <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
