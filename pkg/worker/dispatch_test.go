package worker

import (
	"context"
	"testing"
	"time"

	"github.com/playfair/tablesched/pkg/schedule"
	"github.com/stretchr/testify/require"
)

func TestPoolDispatchAndRunProducesResult(t *testing.T) {
	layout, err := schedule.NewLayout([]int{2}, 1)
	require.NoError(t, err)
	root, err := layout.InitialNode()
	require.NoError(t, err)

	pool := NewPool(layout, 2, 100, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- pool.Run(ctx) }()

	require.NoError(t, pool.Dispatch(ctx, append([]uint64(nil), root.Buffer()...)))

	select {
	case result := <-pool.Results():
		require.True(t, result.Solved)
	case <-time.After(time.Second):
		t.Fatal("pool never produced a result for a trivially solved root")
	}

	cancel()
	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestPoolDispatchPicksLeastLoadedLane(t *testing.T) {
	layout, err := schedule.NewLayout([]int{2}, 1)
	require.NoError(t, err)

	pool := NewPool(layout, 2, 100, nil)
	// Mark lane 0 as loaded by setting its queue counter (no Run loop is
	// draining either lane), so Dispatch's least-loaded scan must prefer
	// lane 1.
	pool.lanes[0].queueSize.Store(5)

	ctx := context.Background()
	node := make([]uint64, layout.TotalWords())
	require.NoError(t, pool.Dispatch(ctx, node))

	require.Equal(t, int64(1), pool.lanes[1].queueSize.Load())
	require.Equal(t, int64(5), pool.lanes[0].queueSize.Load())
}
