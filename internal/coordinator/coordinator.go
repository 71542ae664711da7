// Package coordinator implements the leader's coordination layer.
// See doc.go for complete package documentation.
package coordinator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/cluster"
	"github.com/dreamware/scatterstore/internal/store"
)

const (
	// defaultFanoutWorkers bounds concurrent remote calls across both
	// replication broadcast and query scatter, so follower growth never
	// translates into unbounded open connections.
	defaultFanoutWorkers = 10

	defaultReplicateTimeout = 2 * time.Second
	defaultSearchTimeout    = 3 * time.Second
)

// Coordinator is the explicit cluster context the leader's handlers run
// against: registry, local store, health monitor, and the shared fan-out
// worker pool. It is constructed once in main and passed by reference;
// there is no ambient global state.
type Coordinator struct {
	registry *cluster.Registry
	store    store.DocumentStore
	health   *HealthMonitor
	log      *zap.Logger

	// pool is a counting semaphore: a slot must be held for the duration
	// of any broadcast or scatter remote call.
	pool chan struct{}

	replicateTimeout time.Duration
	searchTimeout    time.Duration
}

// New builds a Coordinator around the given membership and local store.
func New(reg *cluster.Registry, st store.DocumentStore, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		registry:         reg,
		store:            st,
		health:           NewHealthMonitor(reg, log),
		log:              log,
		pool:             make(chan struct{}, defaultFanoutWorkers),
		replicateTimeout: defaultReplicateTimeout,
		searchTimeout:    defaultSearchTimeout,
	}
}

// Registry returns the static cluster membership.
func (c *Coordinator) Registry() *cluster.Registry { return c.registry }

// Store returns the leader's local document store.
func (c *Coordinator) Store() store.DocumentStore { return c.store }

// Health returns the health monitor, mainly so tests can swap the probe.
func (c *Coordinator) Health() *HealthMonitor { return c.health }

// Snapshot takes a fresh liveness snapshot. Callers must take one per
// request and never reuse it.
func (c *Coordinator) Snapshot(ctx context.Context) cluster.HealthSnapshot {
	return c.health.Snapshot(ctx)
}

// acquire takes a worker-pool slot, giving up if the caller's context
// expires first. release must be called once per successful acquire.
func (c *Coordinator) acquire(ctx context.Context) bool {
	select {
	case c.pool <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Coordinator) release() { <-c.pool }
