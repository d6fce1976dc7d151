// Package localcache is the on-device durable key-value store backing the
// sync cache's offline fallback. Values are whole-collection snapshots
// written with full-replace semantics; a bbolt transaction per write keeps
// readers from ever observing a torn value.
package localcache

import (
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("snapshots")

type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the cache file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open local cache")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init local cache bucket")
	}
	return &Store{db: db}, nil
}

// Get returns the stored value for key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "read local cache key %s", key)
	}
	if value == nil {
		return "", false, nil
	}
	return string(value), true, nil
}

// Set replaces the value for key in a single transaction.
func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	return errors.Wrapf(err, "write local cache key %s", key)
}

// Delete removes key; missing keys are a no-op.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	return errors.Wrapf(err, "delete local cache key %s", key)
}

func (s *Store) Close() error {
	return s.db.Close()
}
