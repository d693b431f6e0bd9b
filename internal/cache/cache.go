// Package cache provides a best-effort local cache of parent resolutions,
// stored in a bbolt database under the repository's .git directory.
//
// Entries are performance hints only: the engine always re-verifies a hint
// against the live repository before using it, and resolution falls back to
// the full marker walk whenever verification fails. Losing or deleting the
// database is always safe.
package cache

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const fileName = "baobranch-cache.db"

var bucketParents = []byte("parent-hints")

// Hint is a remembered parent resolution, keyed by the child's immediate
// ancestor commit.
type Hint struct {
	Name   string `json:"name"`
	Stale  bool   `json:"stale"`
	Marker string `json:"marker,omitempty"`
}

// DB wraps the bbolt database. A nil *DB is valid and disables caching.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the cache database inside gitDir. Failure to open
// is not fatal to the caller; it just runs uncached.
func Open(gitDir string) (*DB, error) {
	path := filepath.Join(gitDir, fileName)
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 500 * time.Millisecond})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketParents)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// GetParentHint returns the remembered resolution for an ancestor commit.
func (d *DB) GetParentHint(commit string) (Hint, bool) {
	if d == nil || d.db == nil {
		return Hint{}, false
	}

	var hint Hint
	found := false
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketParents)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(commit))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &hint); err != nil {
			return nil // corrupt entry, treat as a miss
		}
		found = true
		return nil
	})
	if err != nil {
		return Hint{}, false
	}
	return hint, found
}

// PutParentHint records a resolution. Errors are swallowed: the cache must
// never fail an operation.
func (d *DB) PutParentHint(commit string, hint Hint) {
	if d == nil || d.db == nil {
		return
	}

	raw, err := json.Marshal(hint)
	if err != nil {
		return
	}
	_ = d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketParents)
		if b == nil {
			return errors.New("bucket missing")
		}
		return b.Put([]byte(commit), raw)
	})
}
