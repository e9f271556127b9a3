// Command coordinator runs the frontier coordinator: the central process
// workers connect to over WebSocket to receive frontier nodes and submit
// their expansion results (spec.md §4.F-H).
//
// Usage:
//
//	coordinator -listen 127.0.0.1:8089 -timeout 30s -client-buffer-size 4
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/playfair/tablesched/pkg/coordinator"
	"github.com/playfair/tablesched/pkg/wire"
	"github.com/sirupsen/logrus"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:8089", "address to listen on")
	timeout := flag.Duration("timeout", coordinator.DefaultHeartbeatTimeout, "client heartbeat timeout")
	clientBufferSize := flag.Int("client-buffer-size", coordinator.DefaultClientBufferSize, "outstanding frontier nodes kept per client")
	maxInFlightSends := flag.Int64("max-inflight-sends", 0, "cap total outstanding FrontierNode writes across all clients (0 = unbounded)")
	logLevel := flag.String("log-level", "info", "logrus log level (debug, info, warn, error)")
	flag.Parse()

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid -log-level")
	}
	log.SetLevel(level)

	srv := coordinator.NewServer(log, *clientBufferSize, *timeout)
	srv.SetMaxInFlightSends(*maxInFlightSends)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		conn := wire.NewWebsocketConn(ws)
		go func() {
			if err := srv.HandleConn(r.Context(), conn); err != nil {
				log.WithError(err).Info("connection ended")
			}
		}()
	})

	log.WithFields(logrus.Fields{
		"listen":             *listen,
		"timeout":            *timeout,
		"client_buffer_size": *clientBufferSize,
	}).Info("coordinator listening")

	if err := http.ListenAndServe(*listen, nil); err != nil {
		log.WithError(err).Error("coordinator exited")
		os.Exit(1)
	}
}
