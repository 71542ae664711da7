// Package main implements the scatterstore leader: the single node that
// accepts writes, mints record ids, replicates to the followers, and
// answers scatter-gather queries.
//
// Configuration:
//   - --config: cluster topology YAML (required)
//   - --listen: listen address (defaults to the leader port from the config)
//   - --db:     bbolt data file; empty means in-memory storage
//
// Example usage:
//
//	leader --config cluster.yaml --db data/leader.db
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/cluster"
	"github.com/dreamware/scatterstore/internal/config"
	"github.com/dreamware/scatterstore/internal/coordinator"
	"github.com/dreamware/scatterstore/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "cluster.yaml", "cluster topology file")
		listen     = flag.String("listen", "", "listen address (default: leader port from config)")
		dbPath     = flag.String("db", "", "bbolt data file (empty: in-memory store)")
	)
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	registry, err := cluster.NewRegistry(cfg.Leader, cfg.Followers)
	if err != nil {
		log.Fatal("build registry", zap.Error(err))
	}

	st, err := openStore(*dbPath)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	coord := coordinator.New(registry, st, log)
	srv := newServer(coord, log)

	addr := *listen
	if addr == "" {
		addr = listenAddrFor(cfg.Leader)
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("leader listening",
			zap.String("addr", addr),
			zap.String("node", registry.Leader().Name),
			zap.Int("followers", len(registry.Followers())))
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
	log.Info("leader stopped")
}

// openStore picks the persistent backend when a data file is configured
// and falls back to memory otherwise.
func openStore(path string) (store.DocumentStore, error) {
	if path == "" {
		return store.NewMemStore(), nil
	}
	return store.NewBoltStore(path)
}

// listenAddrFor turns the advertised leader URL into a listen address.
func listenAddrFor(leaderURL string) string {
	u, err := url.Parse(leaderURL)
	if err != nil || u.Port() == "" {
		return ":5000"
	}
	return ":" + u.Port()
}
