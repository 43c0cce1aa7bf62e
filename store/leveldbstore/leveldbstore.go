// Package leveldbstore persists trie nodes to disk using goleveldb, for
// callers that need a trie to survive process restarts.
package leveldbstore

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"

	"github.com/hexmpt/hexmpt/store"
)

// Store is a disk-backed store.Store backed by a LevelDB database.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) the LevelDB database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(hash store.Hash) ([]byte, bool, error) {
	v, err := s.db.Get(hash[:], nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *Store) Put(hash store.Hash, blob []byte) error {
	return s.db.Put(hash[:], blob, nil)
}

func (s *Store) Delete(hash store.Hash) error {
	return s.db.Delete(hash[:], nil)
}

func (s *Store) Has(hash store.Hash) (bool, error) {
	return s.db.Has(hash[:], nil)
}

func (s *Store) Commit() error {
	return nil
}

// Close releases the underlying LevelDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsCorrupted reports whether err indicates on-disk corruption, mirroring
// goleveldb's own corruption-detection helper so callers can decide whether
// a recovery pass is worth attempting.
func IsCorrupted(err error) bool {
	return errors.IsCorrupted(err)
}
