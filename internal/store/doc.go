// Package store implements the per-node document store: a schema-less
// record with fixed searchable fields (name, age, city), the typed search
// predicate shared by every node, and two DocumentStore backends.
//
// # Record model
//
// Records are keyed by an opaque id minted by the leader at insert time.
// The same id string is used on every replica; a store never assigns ids
// itself and rejects id-less inserts with ErrMissingID. Query results wrap
// records in TaggedRecord to carry the origin node; the tag is assembled
// at query time and never persisted.
//
// # Predicate evaluation
//
// Predicate holds up to three optional clauses combined with AND. String
// clauses match by case-insensitive substring; the age clause matches by
// exact integer equality and is silently dropped when its value does not
// parse as an integer. Evaluation is a single pure function, so the leader
// and the followers agree on semantics by construction.
//
// # Backends
//
//   - MemStore: mutex-guarded in-memory map, used in tests and when no
//     data file is configured.
//   - BoltStore: bbolt-backed persistent store, one record per key.
//
// Both are safe for concurrent use. Individual operations are atomic;
// there are no multi-operation transactions.
package store
