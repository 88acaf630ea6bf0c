// Package bolt implements storage.Store on a local bbolt file.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/utafrali/assistive-store/internal/storage"
	"github.com/utafrali/assistive-store/pkg/database"
	apperrors "github.com/utafrali/assistive-store/pkg/errors"
)

// Bucket holds every key written by the store.
const Bucket = "cart"

// Store persists values in a single bucket of a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database at path and ensures the
// bucket exists. A second process holding the file lock makes Open fail
// after a one second timeout.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create bolt directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(Bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", Bucket, err)
	}

	return &Store{db: db}, nil
}

// Get returns a copy of the value at key. bbolt values are only valid inside
// the transaction.
func (s *Store) Get(ctx context.Context, key string) (value []byte, err error) {
	_, end := database.TraceQuery(ctx, database.SystemBolt, "Get", "get "+Bucket+"/"+key)
	defer func() { end(storage.TraceError(err)) }()

	err = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(Bucket)).Get([]byte(key)); v != nil {
			value = slices.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt get %s: %w", key, err)
	}
	if value == nil {
		return nil, apperrors.NotFound("key", key)
	}
	return value, nil
}

// Set writes value at key in its own transaction.
func (s *Store) Set(ctx context.Context, key string, value []byte) (err error) {
	_, end := database.TraceQuery(ctx, database.SystemBolt, "Set", "put "+Bucket+"/"+key)
	defer func() { end(err) }()

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(Bucket)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("bolt put %s: %w", key, err)
	}
	return nil
}

// Ping verifies the database is still open.
func (s *Store) Ping(context.Context) error {
	return s.db.View(func(*bolt.Tx) error { return nil })
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}
