// Package store defines the content-addressed node-store contract the trie
// engine persists its nodes through, plus the shared 32-byte hash type used
// as its key space.
package store

import "github.com/ethereum/go-ethereum/common"

// Hash is the 32-byte content address of a stored node encoding.
type Hash = common.Hash

// Store is a mapping from 32-byte hash to the byte-string value stored
// under it. Multiple Puts of the same key with the same value are
// idempotent at the semantic level; Commit is a no-op for ephemeral
// implementations.
type Store interface {
	// Get retrieves the value stored under hash. ok is false if no value
	// is stored under hash; err is non-nil only on a genuine I/O failure.
	Get(hash Hash) (blob []byte, ok bool, err error)

	// Put stores blob under hash.
	Put(hash Hash, blob []byte) error

	// Delete removes hash from the store, if present.
	Delete(hash Hash) error

	// Has reports whether hash is present without fetching its value.
	Has(hash Hash) (bool, error)

	// Commit flushes any buffered writes. It is a no-op for in-memory
	// implementations.
	Commit() error
}
