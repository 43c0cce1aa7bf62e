package trie

import (
	"fmt"

	"github.com/hexmpt/hexmpt/store"
)

// ErrKeyNotFound is returned by Get and GetWithProof when no value is
// stored under the requested key.
var ErrKeyNotFound = fmt.Errorf("trie: key not found")

// ErrInvalidInput is returned for operations given a structurally invalid
// argument: an empty key or an empty value on Update.
var ErrInvalidInput = fmt.Errorf("trie: invalid input")

// ErrKeyTooLong is returned by Delete when given a key longer than 32
// bytes, a ceiling inherited from the source implementation's deletion
// path and not enforced anywhere else.
var ErrKeyTooLong = fmt.Errorf("trie: key exceeds 32 bytes")

// maxDeleteKeyLen is the ceiling Delete enforces on its key argument.
const maxDeleteKeyLen = 32

// StoreMissError reports that a node hash referenced from within the trie
// could not be found in the backing store. Path is the nibble path walked
// to reach the missing reference, useful for diagnosing a partially
// populated store (e.g. after verifying a proof for the wrong key).
type StoreMissError struct {
	Hash store.Hash
	Path []byte
}

func (e *StoreMissError) Error() string {
	return fmt.Sprintf("trie: missing node %s at path %x", e.Hash.Hex(), e.Path)
}

// MalformedNodeError reports that the bytes fetched for Hash did not decode
// into a valid node.
type MalformedNodeError struct {
	Hash store.Hash
	Path []byte
	Err  error
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("trie: malformed node %s at path %x: %v", e.Hash.Hex(), e.Path, e.Err)
}

func (e *MalformedNodeError) Unwrap() error { return e.Err }
