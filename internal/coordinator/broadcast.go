package coordinator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/cluster"
)

// Op is a replicated write operation.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// opPaths maps each operation to its follower endpoint.
var opPaths = map[Op]string{
	OpInsert: "/replicate_insert",
	OpUpdate: "/replicate_update",
	OpDelete: "/replicate_delete",
}

// Outcome is the per-follower result of one broadcast. Outcomes are
// diagnostic: they are logged and returned to the caller for audit, but
// never used to retry or to fail the client-visible write.
type Outcome struct {
	Node string `json:"node"`
	Err  string `json:"error,omitempty"`
}

// OK reports whether the dispatch succeeded.
func (o Outcome) OK() bool { return o.Err == "" }

// Broadcast dispatches a write to every follower the snapshot marks
// Online. Offline followers are skipped outright: no queue, no retry,
// no dead-letter. Dispatch is concurrent, bounded by the shared worker
// pool, with a per-call timeout. The call blocks until every dispatched
// request has returned or timed out, but a follower failure only lands in
// that follower's outcome; it never aborts the siblings or the caller.
//
// The leader's local commit has already happened when Broadcast runs and
// is never rolled back, whatever the outcomes say.
func (c *Coordinator) Broadcast(ctx context.Context, op Op, payload any, snap cluster.HealthSnapshot) []Outcome {
	path := opPaths[op]

	var targets []cluster.Node
	var skipped int
	for _, node := range c.registry.Followers() {
		if snap.Online(node.Addr) {
			targets = append(targets, node)
		} else {
			skipped++
		}
	}

	outcomes := make([]Outcome, len(targets))
	var wg sync.WaitGroup
	for i, node := range targets {
		wg.Add(1)
		go func(i int, node cluster.Node) {
			defer wg.Done()
			outcomes[i] = Outcome{Node: node.Name}

			if !c.acquire(ctx) {
				outcomes[i].Err = ctx.Err().Error()
				return
			}
			defer c.release()

			callCtx, cancel := context.WithTimeout(ctx, c.replicateTimeout)
			defer cancel()

			if err := cluster.PostJSON(callCtx, node.Addr+path, payload, nil); err != nil {
				outcomes[i].Err = err.Error()
			}
		}(i, node)
	}
	wg.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
			c.log.Warn("replication dispatch failed",
				zap.String("op", string(op)),
				zap.String("node", o.Node),
				zap.String("error", o.Err))
		}
	}
	c.log.Info("replication broadcast finished",
		zap.String("op", string(op)),
		zap.Int("dispatched", len(targets)),
		zap.Int("skipped_offline", skipped),
		zap.Int("failed", failed))

	return outcomes
}
