// Package trie implements a hexary Merkle-Patricia trie: a persistent,
// content-addressed, authenticated key-value store whose root hash commits
// to every key and value it holds.
package trie

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/hexmpt/hexmpt/nibble"
	"github.com/hexmpt/hexmpt/store"
)

// Trie is a hexary Merkle-Patricia trie over an arbitrary store.Store. The
// zero value is not usable; construct one with New or NewEmpty.
type Trie struct {
	root     node
	rootHash Hash
	store    store.Store
	log      *slog.Logger
}

// NewEmpty returns a trie with no keys, backed by s.
func NewEmpty(s store.Store) *Trie {
	return &Trie{store: s, rootHash: emptyRoot, log: slog.Default()}
}

// New returns the trie rooted at root, resolving its root node from s. If
// root is the zero hash or the empty-trie root, the returned trie holds no
// keys.
func New(s store.Store, root Hash) (*Trie, error) {
	t := &Trie{store: s, log: slog.Default()}
	if root == (Hash{}) || root == emptyRoot {
		t.rootHash = emptyRoot
		return t, nil
	}
	n, err := t.resolve(hashNode(root[:]), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("trie: open root %s: %w", root.Hex(), err)
	}
	t.root = n
	t.rootHash = root
	return t, nil
}

// RootHash returns the trie's current root hash.
func (t *Trie) RootHash() Hash {
	return t.rootHash
}

// Clear discards every key, resetting the trie to the empty-trie root. It
// does not reclaim the store entries the old tree referenced.
func (t *Trie) Clear() {
	t.root = nil
	t.rootHash = emptyRoot
}

// Len returns the number of live key/value pairs in the trie.
func (t *Trie) Len() (int, error) {
	dict, err := t.ToDict()
	if err != nil {
		return 0, err
	}
	return len(dict), nil
}

// String pretty-prints the trie's in-memory node tree rooted at t.root.
// It does not resolve hashNode references, so every child that was written
// to the store (rather than inlined) prints as its bare hash.
func (t *Trie) String() string {
	return fstring(t.root, "")
}

// resolve dereferences n if it is a hashNode, fetching its encoding from
// the store, decoding it, and recording the raw encoding into proof (when
// non-nil) before returning the decoded node. path is the nibble path
// walked to reach n, used only for error context.
func (t *Trie) resolve(n node, path []byte, proof *proofAccumulator) (node, error) {
	hn, ok := n.(hashNode)
	if !ok {
		return n, nil
	}
	h := Hash(hn)
	blob, ok, err := t.store.Get(h)
	if err != nil {
		return nil, err
	}
	if !ok {
		t.log.Error("trie store miss", "hash", h.Hex(), "path", fmt.Sprintf("%x", path))
		return nil, &StoreMissError{Hash: h, Path: append([]byte(nil), path...)}
	}
	if proof != nil {
		proof.add(blob)
	}
	decoded, err := decodeNode(blob)
	if err != nil {
		t.log.Error("trie malformed node", "hash", h.Hex(), "path", fmt.Sprintf("%x", path), "err", err)
		return nil, &MalformedNodeError{Hash: h, Path: append([]byte(nil), path...), Err: err}
	}
	return decoded, nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (t *Trie) Get(key []byte) ([]byte, error) {
	v, _, err := t.getWithProof(key, nil)
	return v, err
}

// GetWithProof returns the value stored under key together with the
// referenced (non-inlined) nodes visited while resolving it, in traversal
// order, sufficient for VerifyProofOfExistence to replay the lookup
// against a store seeded with nothing else.
func (t *Trie) GetWithProof(key []byte) (value []byte, proof [][]byte, err error) {
	return t.getWithProof(key, newProofAccumulator())
}

func (t *Trie) getWithProof(key []byte, proof *proofAccumulator) ([]byte, [][]byte, error) {
	// The root is held decoded in memory, so resolve never records it.
	if proof != nil && t.root != nil {
		proof.add(encodeNode(t.root))
	}
	hex := keyToHex(key)
	v, err := t.get(t.root, hex, 0, proof)
	if err != nil {
		return nil, nil, err
	}
	if proof == nil {
		return v, nil, nil
	}
	return v, proof.nodes, nil
}

func (t *Trie) get(n node, key []byte, pos int, proof *proofAccumulator) ([]byte, error) {
	switch nd := n.(type) {
	case nil:
		return nil, ErrKeyNotFound
	case valueNode:
		return []byte(nd), nil
	case *shortNode:
		if len(key)-pos < len(nd.Key) || !bytes.Equal(nd.Key, key[pos:pos+len(nd.Key)]) {
			return nil, ErrKeyNotFound
		}
		return t.get(nd.Val, key, pos+len(nd.Key), proof)
	case *fullNode:
		return t.get(nd.Children[key[pos]], key, pos+1, proof)
	case hashNode:
		resolved, err := t.resolve(nd, key[:pos], proof)
		if err != nil {
			return nil, err
		}
		return t.get(resolved, key, pos, proof)
	default:
		panic(fmt.Sprintf("trie: get: invalid node %T", n))
	}
}

// Update stores value under key, replacing any existing value. Both key
// and value must be non-empty.
func (t *Trie) Update(key, value []byte) error {
	if len(key) == 0 || len(value) == 0 {
		return ErrInvalidInput
	}
	hex := keyToHex(key)
	newRoot, err := t.insert(t.root, hex, valueNode(value))
	if err != nil {
		return err
	}
	t.root = newRoot
	return t.commitRoot()
}

func (t *Trie) insert(n node, key []byte, value valueNode) (node, error) {
	if len(key) == 0 {
		return value, nil
	}
	switch nd := n.(type) {
	case nil:
		return &shortNode{Key: append([]byte(nil), key...), Val: value}, nil

	case valueNode:
		return value, nil

	case hashNode:
		resolved, err := t.resolve(nd, nil, nil)
		if err != nil {
			return nil, err
		}
		return t.insert(resolved, key, value)

	case *fullNode:
		idx := key[0]
		child, err := t.insert(nd.Children[idx], key[1:], value)
		if err != nil {
			return nil, err
		}
		cp := nd.copy()
		if idx == nibble.Terminator {
			cp.Children[16] = child
			return cp, nil
		}
		ref, err := t.storeRef(child)
		if err != nil {
			return nil, err
		}
		cp.Children[idx] = ref
		return cp, nil

	case *shortNode:
		return t.insertShort(nd, key, value)

	default:
		panic(fmt.Sprintf("trie: insert: invalid node %T", n))
	}
}

func (t *Trie) insertShort(nd *shortNode, key []byte, value valueNode) (node, error) {
	match := nibble.PrefixLen(key, nd.Key)
	remainKey := key[match:]
	remainCurr := nd.Key[match:]
	_, oldIsLeaf := nd.Val.(valueNode)

	if len(remainKey) == 0 && len(remainCurr) == 0 {
		if oldIsLeaf {
			return &shortNode{Key: nd.Key, Val: value}, nil
		}
		child, err := t.insert(nd.Val, remainKey, value)
		if err != nil {
			return nil, err
		}
		ref, err := t.storeRef(child)
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: nd.Key, Val: ref}, nil
	}

	if len(remainCurr) == 0 && !oldIsLeaf {
		child, err := t.insert(nd.Val, remainKey, value)
		if err != nil {
			return nil, err
		}
		ref, err := t.storeRef(child)
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: nd.Key, Val: ref}, nil
	}

	if len(remainCurr) == 0 || len(remainKey) == 0 {
		panic("trie: insert: inconsistent short node split")
	}

	branch := &fullNode{}
	if err := t.placeExisting(branch, remainCurr, nd.Val, oldIsLeaf); err != nil {
		return nil, err
	}
	if err := t.placeNew(branch, remainKey, value); err != nil {
		return nil, err
	}
	if match == 0 {
		return branch, nil
	}
	ref, err := t.storeRef(branch)
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: append([]byte(nil), key[:match]...), Val: ref}, nil
}

// placeExisting installs the surviving content of a split leaf or
// extension into branch, at the index its remaining path diverges on.
func (t *Trie) placeExisting(branch *fullNode, remain []byte, val node, isLeaf bool) error {
	idx := remain[0]
	if idx == nibble.Terminator {
		branch.Children[16] = val
		return nil
	}
	if isLeaf {
		leaf := &shortNode{Key: append([]byte(nil), remain[1:]...), Val: val}
		ref, err := t.storeRef(leaf)
		if err != nil {
			return err
		}
		branch.Children[idx] = ref
		return nil
	}
	if len(remain) == 1 {
		branch.Children[idx] = val
		return nil
	}
	ext := &shortNode{Key: append([]byte(nil), remain[1:]...), Val: val}
	ref, err := t.storeRef(ext)
	if err != nil {
		return err
	}
	branch.Children[idx] = ref
	return nil
}

// placeNew installs the newly inserted value into branch.
func (t *Trie) placeNew(branch *fullNode, remain []byte, value valueNode) error {
	idx := remain[0]
	if idx == nibble.Terminator {
		branch.Children[16] = value
		return nil
	}
	leaf := &shortNode{Key: append([]byte(nil), remain[1:]...), Val: value}
	ref, err := t.storeRef(leaf)
	if err != nil {
		return err
	}
	branch.Children[idx] = ref
	return nil
}
