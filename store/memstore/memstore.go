// Package memstore implements an ephemeral, process-local store.Store backed
// by a plain Go map. It never persists across process restarts and is the
// default store for tests, proof verification, and scratch tries.
package memstore

import (
	"sync"

	"github.com/hexmpt/hexmpt/store"
)

// MemStore is a goroutine-safe in-memory store.Store.
type MemStore struct {
	mu   sync.RWMutex
	data map[store.Hash][]byte
}

// New returns an empty MemStore.
func New() *MemStore {
	return &MemStore{data: make(map[store.Hash][]byte)}
}

func (m *MemStore) Get(hash store.Hash) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[hash]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemStore) Put(hash store.Hash, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	m.data[hash] = cp
	return nil
}

func (m *MemStore) Delete(hash store.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, hash)
	return nil
}

func (m *MemStore) Has(hash store.Hash) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok, nil
}

func (m *MemStore) Commit() error { return nil }

// Len reports the number of entries currently stored. It exists for tests
// and debugging, mirroring the teacher's habit of exposing small introspection
// helpers on its memory-backed stores.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
