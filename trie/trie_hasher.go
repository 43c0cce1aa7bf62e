package trie

import (
	"golang.org/x/crypto/sha3"

	"github.com/hexmpt/hexmpt/store"
)

// Hash is the 32-byte content address of a node, or of the trie's root.
type Hash = store.Hash

// maxInlineSize is the encoding-size threshold under which a child node is
// kept inline (its decoded form embedded directly in its parent's
// encoding) rather than written to the store and referenced by hash.
const maxInlineSize = 32

// emptyRoot is the root hash of a trie holding no keys: the hash of the
// canonical encoding of the blank node.
var emptyRoot = hashBytes(encodeNode(nil))

func hashBytes(b []byte) Hash {
	return Hash(sha3.Sum256(b))
}

// storeRef returns the reference n's parent should embed for it: n itself,
// unchanged, if it is already blank or an unresolved hash; otherwise n's
// canonical encoding, inlined if under maxInlineSize or else written to
// the store and replaced by a hashNode pointing at it.
func (t *Trie) storeRef(n node) (node, error) {
	switch n.(type) {
	case nil, hashNode:
		return n, nil
	}
	enc := encodeNode(n)
	if len(enc) < maxInlineSize {
		return n, nil
	}
	h := hashBytes(enc)
	if err := t.store.Put(h, enc); err != nil {
		return nil, err
	}
	return hashNode(h[:]), nil
}

// commitRoot re-encodes the current root and writes it to the store under
// its hash, unconditionally: unlike a child reference, the root is always
// independently resolvable from its hash alone, never inlined into
// anything else.
func (t *Trie) commitRoot() error {
	if t.root == nil {
		t.rootHash = emptyRoot
		return nil
	}
	enc := encodeNode(t.root)
	h := hashBytes(enc)
	if err := t.store.Put(h, enc); err != nil {
		return err
	}
	t.rootHash = h
	return nil
}
