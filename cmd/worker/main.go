// Command worker connects to a coordinator and helps search for a
// schedule: it receives frontier nodes over WebSocket, expands each with a
// pool of goroutines (one per hardware thread by default), and reports the
// residual children back. A found solution is printed locally; its batch
// result carries no children.
//
// Usage (flags come before the positional arguments):
//
//	worker [-rounds R] [-iterations-per-sync N] [-threads N] ws://host:8089/ table1 table2 ...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playfair/tablesched/pkg/schedule"
	"github.com/playfair/tablesched/pkg/wire"
	"github.com/playfair/tablesched/pkg/worker"
	"github.com/sirupsen/logrus"
)

func main() {
	rounds := flag.Int("rounds", 0, "number of rounds (default: one per table)")
	iterationsPerSync := flag.Int("iterations-per-sync", worker.DefaultStepsPerSync, "propagation steps per claimed node before reporting back")
	threads := flag.Int("threads", 0, "worker goroutines (default: runtime.NumCPU())")
	logLevel := flag.String("log-level", "info", "logrus log level (debug, info, warn, error)")
	flag.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	}

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: worker <server_url> <table1> [table2 ...]")
		os.Exit(2)
	}
	serverURL := args[0]
	tables := make([]int, len(args)-1)
	for i, a := range args[1:] {
		size, err := strconv.Atoi(a)
		if err != nil || size <= 0 {
			log.WithField("arg", a).Fatal("table sizes must be positive integers")
		}
		tables[i] = size
	}

	r := *rounds
	if r <= 0 {
		r = len(tables)
	}
	if r > len(tables) {
		log.WithFields(logrus.Fields{"rounds": r, "tables": len(tables)}).
			Warn("rounds greater than table count, clamping")
		r = len(tables)
	}

	// The coordinator owns InitialNode for this problem and hands it to us
	// as the first FrontierNode message; we only need the layout to decode
	// and re-encode node buffers of the right size.
	layout, err := schedule.NewLayout(tables, r)
	if err != nil {
		log.WithError(err).Fatal("building layout")
	}

	ws, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		log.WithError(err).Fatal("dialing coordinator")
	}
	conn := wire.NewWebsocketConn(ws)
	defer conn.Close()

	ctx := context.Background()
	uint32Tables := make([]uint32, len(tables))
	for i, t := range tables {
		uint32Tables[i] = uint32(t)
	}
	initPayload := wire.EncodeProblemInit(wire.ProblemInit{Tables: uint32Tables, Rounds: uint32(r)})
	if err := wire.Send(ctx, conn, wire.KindProblemInit, initPayload); err != nil {
		log.WithError(err).Fatal("sending problem init")
	}

	pool := worker.NewPool(layout, *threads, *iterationsPerSync, log)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- pool.Run(runCtx) }()

	wordCount := layout.TotalWords()
	startTime := time.Now()
	totalSteps := 0
	lastPrint := time.Now()

	go func() {
		for result := range pool.Results() {
			totalSteps += result.Steps
			if result.Solved {
				solvedNode, err := layout.Import(result.Solution)
				if err == nil {
					log.Info("solution found:")
					if err := layout.Format(os.Stdout, solvedNode); err != nil {
						log.WithError(err).Warn("formatting solution")
					}
				}
			}
			batch := wire.BatchResult{
				Base:     result.Base,
				Children: result.Children,
				Stats: wire.Stats{
					Steps:        uint64(result.Steps),
					ElapsedNanos: uint64(result.Elapsed.Nanoseconds()),
				},
			}
			payload := wire.EncodeBatchResult(batch, wordCount)
			if err := wire.Send(ctx, conn, wire.KindBatchResult, payload); err != nil {
				log.WithError(err).Warn("sending batch result")
				cancel()
				return
			}
			if time.Since(lastPrint) > 300*time.Millisecond {
				log.WithFields(logrus.Fields{
					"total_steps": totalSteps,
					"rate":        float64(totalSteps) / time.Since(startTime).Seconds(),
				}).Info("progress")
				lastPrint = time.Now()
			}
		}
	}()

	for {
		kind, payload, err := wire.Receive(ctx, conn)
		if err != nil {
			log.WithError(err).Info("disconnected")
			break
		}
		if kind != wire.KindFrontierNode {
			log.WithField("kind", kind).Warn("unexpected message kind, ignoring")
			continue
		}
		node, err := wire.DecodeFrontierNode(payload, wordCount)
		if err != nil {
			log.WithError(err).Warn("decoding frontier node, ignoring")
			continue
		}
		if err := pool.Dispatch(ctx, node); err != nil {
			log.WithError(err).Info("dispatch cancelled")
			break
		}
	}

	cancel()
	<-runDone
}
