package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var documentsBucket = []byte("documents")

// BoltStore implements DocumentStore on top of a bbolt database file, so a
// node's records survive process restarts. Thread safety comes from bbolt's
// transaction model: concurrent View transactions, serialized Update
// transactions, no extra locking needed here.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// NewBoltStore opens (or creates) the database file at path and ensures
// the documents bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(documentsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents bucket: %w", err)
	}
	return &BoltStore{db: db, path: path}, nil
}

func (b *BoltStore) Insert(rec Record) error {
	if rec.ID == "" {
		return ErrMissingID
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(documentsBucket).Put([]byte(rec.ID), raw)
	})
}

func (b *BoltStore) Update(id string, fields Fields) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(documentsBucket)
		raw := bkt.Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode record %s: %w", id, err)
		}
		fields.apply(&rec)
		out, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(id), out)
	})
}

func (b *BoltStore) Delete(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(documentsBucket)
		if bkt.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return bkt.Delete([]byte(id))
	})
}

func (b *BoltStore) Search(p Predicate) ([]Record, error) {
	cs := p.clauses()
	var out []Record
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(documentsBucket).ForEach(func(_, raw []byte) error {
			var rec Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			if matchAll(cs, rec) {
				out = append(out, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BoltStore) Len() int {
	var n int
	_ = b.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(documentsBucket).Stats().KeyN
		return nil
	})
	return n
}

// Close releases the underlying database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

// Path returns the database file location, for logging at startup.
func (b *BoltStore) Path() string { return b.path }
