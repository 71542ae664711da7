package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/scatterstore/internal/cluster"
	"github.com/dreamware/scatterstore/internal/store"
)

// recordingFollower captures the replication requests a test follower
// receives, so tests can assert who was contacted with what.
type recordingFollower struct {
	mu    sync.Mutex
	paths []string
	docs  []store.Record
	srv   *httptest.Server
}

func newRecordingFollower(t *testing.T) *recordingFollower {
	t.Helper()
	f := &recordingFollower{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.paths = append(f.paths, r.URL.Path)
		if r.URL.Path == "/replicate_insert" {
			var p cluster.InsertPayload
			json.NewDecoder(r.Body).Decode(&p)
			f.docs = append(f.docs, p.Document)
		}
		json.NewEncoder(w).Encode(cluster.StatusReply{Status: "success"})
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *recordingFollower) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths)
}

func onlineSnapshot(reg *cluster.Registry) cluster.HealthSnapshot {
	snap := cluster.HealthSnapshot{}
	for _, n := range reg.Nodes() {
		snap[n.Addr] = cluster.StatusOnline
	}
	return snap
}

// TestBroadcastReachesOnlineFollowers verifies concurrent dispatch to
// every Online follower and the success outcomes.
func TestBroadcastReachesOnlineFollowers(t *testing.T) {
	f1 := newRecordingFollower(t)
	f2 := newRecordingFollower(t)

	reg := testRegistry(t, f1.srv.URL, f2.srv.URL)
	coord := New(reg, store.NewMemStore(), nil)

	rec := store.Record{ID: "abc", Name: "Alice", Age: 30, City: "NY"}
	outcomes := coord.Broadcast(context.Background(), OpInsert,
		cluster.InsertPayload{Document: rec}, onlineSnapshot(reg))

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.True(t, o.OK(), "outcome for %s: %s", o.Node, o.Err)
	}
	assert.Equal(t, []string{"/replicate_insert"}, f1.paths)
	require.Len(t, f1.docs, 1)
	assert.Equal(t, "abc", f1.docs[0].ID, "replicated document keeps the leader-minted id")
	assert.Equal(t, 1, f2.requestCount())
}

// TestBroadcastSkipsOfflineFollowers verifies an Offline follower is not
// contacted at all and produces no outcome.
func TestBroadcastSkipsOfflineFollowers(t *testing.T) {
	f1 := newRecordingFollower(t)
	f2 := newRecordingFollower(t)

	reg := testRegistry(t, f1.srv.URL, f2.srv.URL)
	coord := New(reg, store.NewMemStore(), nil)

	snap := onlineSnapshot(reg)
	snap[f2.srv.URL] = cluster.StatusOffline

	outcomes := coord.Broadcast(context.Background(), OpDelete,
		cluster.DeletePayload{ID: "abc"}, snap)

	require.Len(t, outcomes, 1)
	assert.Equal(t, 1, f1.requestCount())
	assert.Equal(t, 0, f2.requestCount(), "offline follower must be skipped entirely")
}

// TestBroadcastIsolatesFailures verifies one follower's error never
// aborts the dispatch to its siblings.
func TestBroadcastIsolatesFailures(t *testing.T) {
	healthy := newRecordingFollower(t)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "store exploded", http.StatusInternalServerError)
	}))
	defer broken.Close()

	reg := testRegistry(t, broken.URL, healthy.srv.URL)
	coord := New(reg, store.NewMemStore(), nil)

	outcomes := coord.Broadcast(context.Background(), OpUpdate,
		cluster.UpdatePayload{ID: "abc"}, onlineSnapshot(reg))

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].OK())
	assert.Contains(t, outcomes[0].Err, "500")
	assert.True(t, outcomes[1].OK())
	assert.Equal(t, 1, healthy.requestCount())
}

// TestBroadcastTimeoutBecomesOutcome verifies a slow follower is recorded
// as a failed outcome once its per-call timeout elapses.
func TestBroadcastTimeoutBecomesOutcome(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()
	fast := newRecordingFollower(t)

	reg := testRegistry(t, slow.URL, fast.srv.URL)
	coord := New(reg, store.NewMemStore(), nil)
	coord.replicateTimeout = 30 * time.Millisecond

	start := time.Now()
	outcomes := coord.Broadcast(context.Background(), OpInsert,
		cluster.InsertPayload{Document: store.Record{ID: "x"}}, onlineSnapshot(reg))
	elapsed := time.Since(start)

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].OK(), "slow follower should time out")
	assert.True(t, outcomes[1].OK())
	assert.Less(t, elapsed, 250*time.Millisecond, "broadcast must return at the timeout, not the follower's pace")
}

// TestBroadcastNotFoundIsDiagnosticOnly verifies a follower 404 (expected
// under partial replication) lands in the outcome and nowhere else.
func TestBroadcastNotFoundIsDiagnosticOnly(t *testing.T) {
	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(cluster.StatusReply{Status: "not_found"})
	}))
	defer missing.Close()

	reg := testRegistry(t, missing.URL)
	coord := New(reg, store.NewMemStore(), nil)

	outcomes := coord.Broadcast(context.Background(), OpDelete,
		cluster.DeletePayload{ID: "ghost"}, onlineSnapshot(reg))

	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].OK())
	assert.Contains(t, outcomes[0].Err, "404")
}
