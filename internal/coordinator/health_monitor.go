package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/cluster"
)

// defaultProbeTimeout bounds each liveness probe. Probes run concurrently,
// so worst-case snapshot latency is one timeout, not one per follower.
const defaultProbeTimeout = 500 * time.Millisecond

// HealthMonitor classifies follower liveness on demand. It keeps no state
// between calls: every snapshot probes every follower exactly once, and a
// failed probe is recorded as Offline rather than surfaced as an error.
type HealthMonitor struct {
	registry *cluster.Registry
	timeout  time.Duration
	log      *zap.Logger

	mu    sync.Mutex
	probe func(ctx context.Context, addr string) error
}

// NewHealthMonitor creates a monitor over the given membership.
func NewHealthMonitor(reg *cluster.Registry, log *zap.Logger) *HealthMonitor {
	if log == nil {
		log = zap.NewNop()
	}
	h := &HealthMonitor{
		registry: reg,
		timeout:  defaultProbeTimeout,
		log:      log,
	}
	h.probe = h.httpProbe
	return h
}

// SetProbeFunc overrides the liveness probe. Used by tests.
func (h *HealthMonitor) SetProbeFunc(probe func(ctx context.Context, addr string) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probe = probe
}

func (h *HealthMonitor) probeFunc() func(ctx context.Context, addr string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.probe
}

// Snapshot probes every follower concurrently and returns a fresh
// classification. The leader is Online by definition. The snapshot is
// request-scoped; callers must not cache it.
func (h *HealthMonitor) Snapshot(ctx context.Context) cluster.HealthSnapshot {
	followers := h.registry.Followers()
	snap := make(cluster.HealthSnapshot, len(followers)+1)
	snap[h.registry.Leader().Addr] = cluster.StatusOnline

	probe := h.probeFunc()
	statuses := make([]cluster.NodeStatus, len(followers))

	var wg sync.WaitGroup
	for i, node := range followers {
		wg.Add(1)
		go func(i int, node cluster.Node) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			if err := probe(probeCtx, node.Addr); err != nil {
				statuses[i] = cluster.StatusOffline
				h.log.Debug("health probe failed",
					zap.String("node", node.Name),
					zap.Error(err))
				return
			}
			statuses[i] = cluster.StatusOnline
		}(i, node)
	}
	wg.Wait()

	for i, node := range followers {
		snap[node.Addr] = statuses[i]
	}
	return snap
}

// httpProbe is the default probe: GET /health, any transport error or
// non-2xx status means Offline.
func (h *HealthMonitor) httpProbe(ctx context.Context, addr string) error {
	var reply cluster.HealthReply
	if err := cluster.GetJSON(ctx, addr+"/health", &reply); err != nil {
		return err
	}
	if reply.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", reply.Status)
	}
	return nil
}
