// Package database holds the byte-keyed persistence used by the bridge
// core. The core only ever talks to the KeyValueStore interface; the
// concrete engine (bbolt, sqlite, in-memory) is chosen at wiring time.
package database

import "errors"

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found in store")

type KeyValueStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	Put(key []byte, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error

	Close() error
}
