// Package cluster defines the shared vocabulary of the scatterstore
// cluster: node identity and roles, the static membership registry, the
// request-scoped health snapshot, the JSON wire types of the node-to-node
// API, and small HTTP helpers used for every remote call.
//
// # Topology
//
// The cluster is a hub-and-spoke: one leader accepts writes and
// coordinates queries, a fixed set of followers hold replicas and answer
// local searches.
//
//	              ┌──────────────┐
//	              │    Leader    │
//	              │              │
//	              │ - Registry   │
//	              │ - Health     │
//	              │ - Broadcast  │
//	              │ - Scatter    │
//	              └──────┬───────┘
//	                     │
//	      ┌──────────────┼──────────────┐
//	┌─────▼─────┐  ┌─────▼─────┐  ┌─────▼─────┐
//	│ Follower 1│  │ Follower 2│  │ Follower 3│
//	└───────────┘  └───────────┘  └───────────┘
//
// Membership comes from configuration at startup and never changes while
// the process runs. The Registry is therefore immutable and lock-free.
//
// # Health snapshots
//
// A HealthSnapshot classifies every node as online or offline at one
// point in time. Snapshots gate both replication and query fan-out, are
// recomputed for every request, and are never cached: stale liveness is
// worse than the cost of a few hundred-millisecond probes.
//
// # Wire protocol
//
// All node-to-node communication is JSON over HTTP, one endpoint per verb:
//
//	POST /replicate_insert  {"document": {...}}     replica apply of an insert
//	POST /replicate_update  {"_id": ..., "data":{}} targeted partial update
//	POST /replicate_delete  {"_id": ...}            targeted delete
//	POST /local_search      {"name","age","city"}   predicate evaluation
//	GET  /health                                    liveness probe
//
// PostJSON and GetJSON carry a context for the per-call timeout; callers
// never issue a remote call without one.
package cluster
