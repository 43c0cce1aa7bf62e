// Package refcount wraps a base store.Store with per-key reference counting,
// so that a node shared by several historical roots is only physically
// deleted once its last referencing root is gone.
package refcount

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/hexmpt/hexmpt/store"
)

// counterSize is the width of the big-endian reference count prefixed onto
// every stored value.
const counterSize = 4

// Store wraps base, transparently prefixing every stored value with a
// 4-byte big-endian reference count. Put increments the count (initializing
// it to 1 on first write); Delete decrements it and only removes the
// underlying entry once the count reaches zero.
type Store struct {
	mu   sync.Mutex
	base store.Store
}

// New wraps base with reference counting.
func New(base store.Store) *Store {
	return &Store{base: base}
}

// MismatchError reports that Put was called for a hash already present
// under a different value. A reference-counted store assumes content
// addressing: the same hash must always map to the same bytes.
type MismatchError struct {
	Hash store.Hash
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("refcount: put %s with differing content for an existing key", e.Hash.Hex())
}

func (s *Store) Get(hash store.Hash) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok, err := s.base.Get(hash)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(raw) < counterSize {
		return nil, false, fmt.Errorf("refcount: stored value for %s shorter than counter prefix", hash.Hex())
	}
	return raw[counterSize:], true, nil
}

func (s *Store) Put(hash store.Hash, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok, err := s.base.Get(hash)
	if err != nil {
		return err
	}
	if !ok {
		packed := make([]byte, counterSize+len(blob))
		binary.BigEndian.PutUint32(packed, 1)
		copy(packed[counterSize:], blob)
		return s.base.Put(hash, packed)
	}
	if len(raw) < counterSize {
		return fmt.Errorf("refcount: stored value for %s shorter than counter prefix", hash.Hex())
	}
	count := binary.BigEndian.Uint32(raw[:counterSize])
	existing := raw[counterSize:]
	if string(existing) != string(blob) {
		return &MismatchError{Hash: hash}
	}
	packed := make([]byte, counterSize+len(blob))
	binary.BigEndian.PutUint32(packed, count+1)
	copy(packed[counterSize:], blob)
	return s.base.Put(hash, packed)
}

func (s *Store) Delete(hash store.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok, err := s.base.Get(hash)
	if err != nil || !ok {
		return err
	}
	if len(raw) < counterSize {
		return fmt.Errorf("refcount: stored value for %s shorter than counter prefix", hash.Hex())
	}
	count := binary.BigEndian.Uint32(raw[:counterSize])
	if count <= 1 {
		return s.base.Delete(hash)
	}
	packed := make([]byte, len(raw))
	binary.BigEndian.PutUint32(packed, count-1)
	copy(packed[counterSize:], raw[counterSize:])
	return s.base.Put(hash, packed)
}

func (s *Store) Has(hash store.Hash) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Has(hash)
}

func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Commit()
}

// RefCount returns the current reference count for hash, or 0 if absent.
func (s *Store) RefCount(hash store.Hash) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok, err := s.base.Get(hash)
	if err != nil || !ok {
		return 0, err
	}
	if len(raw) < counterSize {
		return 0, fmt.Errorf("refcount: stored value for %s shorter than counter prefix", hash.Hex())
	}
	return binary.BigEndian.Uint32(raw[:counterSize]), nil
}
