// Package storage is the durable local state layer: JSON blobs under fixed
// logical keys, surviving process restarts on the same device.
package storage

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Logical keys for the persisted documents.
const (
	KeyAuthToken    = "auth_token"
	KeyTradeHistory = "trade_history"
	KeyTasks        = "tasks"
	KeyBuilds       = "builds"
	KeyInventory    = "inventory"
	KeyRivens       = "rivens"
	KeySettings     = "settings"
)

var bucketName = []byte("companion")

// Store is a bbolt-backed blob store. Each key holds one whole serialized
// document; writes replace the document wholesale (last write wins).
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the blob stored under key, or nil when absent.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the blob stored under key.
func (s *Store) Put(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob stored under key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}
