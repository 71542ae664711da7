// Package main implements a scatterstore follower: a replica that applies
// writes replicated by the leader and answers local search requests. A
// follower never mints record ids and never initiates cluster-wide
// operations.
//
// Configuration:
//   - --listen: listen address (default ":5001")
//   - --db:     bbolt data file; empty means in-memory storage
//
// Example usage:
//
//	follower --listen :5001 --db data/follower1.db
//	follower --listen :5002 --db data/follower2.db
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/store"
)

func main() {
	var (
		listen = flag.String("listen", ":5001", "listen address")
		dbPath = flag.String("db", "", "bbolt data file (empty: in-memory store)")
	)
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	st, err := openStore(*dbPath)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	srv := newServer(st, log)

	httpSrv := &http.Server{
		Addr:              *listen,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("follower listening",
			zap.String("addr", *listen),
			zap.Int("records", st.Len()))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	log.Info("follower stopped")
}

func openStore(path string) (store.DocumentStore, error) {
	if path == "" {
		return store.NewMemStore(), nil
	}
	return store.NewBoltStore(path)
}
