package database

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketBridge = []byte("bridge")

// BoltStore is the default on-disk KeyValueStore, a single-bucket bbolt
// database.
type BoltStore struct {
	db *bolt.DB
}

func OpenBoltStore(path string) (*BoltStore, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}

	if err := bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBridge)
		return err
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("create bucket %s: %w", string(bucketBridge), err)
	}

	return &BoltStore{db: bdb}, nil
}

func (s *BoltStore) Get(key []byte) ([]byte, error) {
	var out []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBridge).Get(key)
		if v == nil {
			return nil
		}
		found = true
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return out, nil
}

func (s *BoltStore) Put(key []byte, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBridge).Put(key, value)
	})
}

func (s *BoltStore) Delete(key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBridge).Delete(key)
	})
}

func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
