package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dreamware/scatterstore/internal/cluster"
	"github.com/dreamware/scatterstore/internal/store"
)

// ErrEmptyPredicate rejects a search with no clauses before any network
// call is made. An empty predicate is not "match everything".
var ErrEmptyPredicate = errors.New("search requires at least one clause")

// Search runs the scatter-gather query: the leader's store is searched
// synchronously while one remote search per Online follower fans out
// through the shared worker pool, each with its own timeout. A follower
// that errors or times out contributes an empty result set instead of
// failing the query. Results are tagged with their origin node; per-node
// order is preserved, cross-node order is not specified.
//
// A failure of the leader's own store is the one fatal case and is
// returned as an error.
func (c *Coordinator) Search(ctx context.Context, p store.Predicate, snap cluster.HealthSnapshot) ([]store.TaggedRecord, error) {
	if p.Empty() {
		return nil, ErrEmptyPredicate
	}

	var targets []cluster.Node
	for _, node := range c.registry.Followers() {
		if snap.Online(node.Addr) {
			targets = append(targets, node)
		}
	}

	// Scatter to the followers first so the remote calls overlap with the
	// local evaluation below.
	parts := make([][]store.Record, len(targets))
	var wg sync.WaitGroup
	for i, node := range targets {
		wg.Add(1)
		go func(i int, node cluster.Node) {
			defer wg.Done()
			if !c.acquire(ctx) {
				return
			}
			defer c.release()

			callCtx, cancel := context.WithTimeout(ctx, c.searchTimeout)
			defer cancel()

			var recs []store.Record
			if err := cluster.PostJSON(callCtx, node.Addr+"/local_search", p, &recs); err != nil {
				c.log.Warn("remote search failed",
					zap.String("node", node.Name),
					zap.Error(err))
				return
			}
			parts[i] = recs
		}(i, node)
	}

	local, err := c.store.Search(p)
	if err != nil {
		wg.Wait()
		return nil, fmt.Errorf("local search: %w", err)
	}
	merged := store.Tag(local, c.registry.Leader().Name)

	wg.Wait()
	for i, node := range targets {
		merged = append(merged, store.Tag(parts[i], node.Name)...)
	}

	c.log.Info("scatter-gather search finished",
		zap.Int("nodes_queried", len(targets)+1),
		zap.Int("results", len(merged)))
	return merged, nil
}
