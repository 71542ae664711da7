// Package coordinator implements the leader's coordination layer: the
// health-gated replication broadcaster and the scatter-gather query
// engine, plus the on-demand health monitor that feeds both.
//
// # Overview
//
// The Coordinator is the single cluster-context value the leader's HTTP
// handlers operate on. A write flows through it as:
//
//	local commit → health snapshot → broadcast to Online followers
//
// and a query as:
//
//	health snapshot → local search + remote search per Online follower → merge
//
// The local commit always happens before the broadcast and is never
// rolled back. Replication is best-effort: a follower that is Offline at
// write time simply misses the write and diverges until an out-of-band
// resync, which this layer does not provide.
//
// # Health model
//
// HealthMonitor.Snapshot probes every follower's /health endpoint
// concurrently with a short timeout and classifies each as Online or
// Offline. One probe, one outcome, no retries, no caching: a snapshot is
// taken per request and discarded. A probe failure is never an error to
// the caller; it is the Offline classification itself.
//
// # Concurrency
//
// Broadcast and Search share a fixed-capacity worker pool. Each unit of
// remote work holds one slot and carries its own context timeout. The
// join point waits for all dispatched work; a timed-out call is abandoned
// (its result discarded) though the underlying request is not forcibly
// cancelled at the transport layer.
//
// # Failure semantics
//
//   - Follower errors during broadcast become per-node Outcome strings,
//     logged and returned for audit only.
//   - Follower errors during search become empty contributions.
//   - Only a failure of the leader's own store fails the request.
package coordinator
