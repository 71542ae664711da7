package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when an update or delete targets an id that
// does not exist on this node. Expected under partial replication.
var ErrNotFound = errors.New("record not found")

// ErrMissingID is returned when a record arrives without an id. A replica
// must never mint its own id, so such a record is rejected outright.
var ErrMissingID = errors.New("missing record identifier")

// DocumentStore is the per-node record store the coordination layer runs
// against. Implementations must be safe for concurrent use; each operation
// is individually atomic but there are no cross-operation transactions.
type DocumentStore interface {
	// Insert stores a record under its id.
	// Returns ErrMissingID if the record has no id.
	Insert(rec Record) error

	// Update replaces the supplied fields of the record with the given id.
	// Returns ErrNotFound if the id is absent.
	Update(id string, fields Fields) error

	// Delete removes the record with the given id.
	// Returns ErrNotFound if the id is absent.
	Delete(id string) error

	// Search returns the records matching the predicate. The order is
	// stable for a given store but not specified across implementations.
	Search(p Predicate) ([]Record, error)

	// Len returns the number of stored records.
	Len() int

	// Close releases any underlying resources.
	Close() error
}

// MemStore implements DocumentStore with in-memory storage.
// Uses sync.RWMutex for thread-safe concurrent access.
type MemStore struct {
	mu    sync.RWMutex
	data  map[string]Record
	order []string // ids in insertion order, so search results are stable
}

// NewMemStore creates a new in-memory document store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]Record)}
}

func (m *MemStore) Insert(rec Record) error {
	if rec.ID == "" {
		return ErrMissingID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.data[rec.ID] = rec
	return nil
}

func (m *MemStore) Update(id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.data[id]
	if !exists {
		return ErrNotFound
	}
	fields.apply(&rec)
	m.data[id] = rec
	return nil
}

func (m *MemStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[id]; !exists {
		return ErrNotFound
	}
	delete(m.data, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemStore) Search(p Predicate) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cs := p.clauses()
	var out []Record
	for _, id := range m.order {
		if rec := m.data[id]; matchAll(cs, rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error { return nil }
