package trie

import (
	"fmt"

	"github.com/hexmpt/hexmpt/nibble"
)

// Delete removes key from the trie. It is a no-op, returning ErrKeyNotFound,
// if key is not present.
//
// When removing a key collapses a branch down to a single remaining child,
// that branch is replaced by a shortNode splicing its own path onto the
// surviving child's, exactly as Update would have built it had the
// collapsed shape been inserted directly. This keeps the trie's shape, and
// therefore its root hash, independent of insertion/deletion history for a
// given final key set.
func (t *Trie) Delete(key []byte) error {
	if len(key) > maxDeleteKeyLen {
		return ErrKeyTooLong
	}
	hex := keyToHex(key)
	newRoot, deleted, err := t.delete(t.root, hex)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrKeyNotFound
	}
	t.root = newRoot
	return t.commitRoot()
}

// delete returns the replacement for n with key removed, and whether key
// was actually present.
func (t *Trie) delete(n node, key []byte) (node, bool, error) {
	switch nd := n.(type) {
	case nil:
		return nil, false, nil

	case valueNode:
		if len(key) == 0 {
			return nil, true, nil
		}
		return nd, false, nil

	case hashNode:
		resolved, err := t.resolve(nd, nil, nil)
		if err != nil {
			return nil, false, err
		}
		return t.delete(resolved, key)

	case *shortNode:
		match := nibble.PrefixLen(key, nd.Key)
		if match != len(nd.Key) {
			return nd, false, nil
		}
		child, deleted, err := t.delete(nd.Val, key[match:])
		if err != nil || !deleted {
			return nd, deleted, err
		}
		if child == nil {
			return nil, true, nil
		}
		switch c := child.(type) {
		case *shortNode:
			// merge the two shortNodes into one, splicing keys together.
			merged := append(append([]byte(nil), nd.Key...), c.Key...)
			return &shortNode{Key: merged, Val: c.Val}, true, nil
		default:
			ref, err := t.storeRef(child)
			if err != nil {
				return nil, false, err
			}
			return &shortNode{Key: nd.Key, Val: ref}, true, nil
		}

	case *fullNode:
		// key always ends in nibble.Terminator, so a length-1 remainder is
		// always [Terminator]: it indexes the value slot 16, never a
		// 0-15 branch index with nothing following it.
		idx := key[0]
		child, deleted, err := t.delete(nd.Children[idx], key[1:])
		if err != nil || !deleted {
			return nd, deleted, err
		}
		cp := nd.copy()
		if child == nil {
			cp.Children[idx] = nil
		} else {
			ref, err := t.storeRef(child)
			if err != nil {
				return nil, false, err
			}
			cp.Children[idx] = ref
		}
		return t.collapseFullNode(cp)

	default:
		panic(fmt.Sprintf("trie: delete: invalid node %T", n))
	}
}

// collapseFullNode checks whether n now has a single remaining child (or
// value) and, if so, replaces it with the equivalent shortNode.
func (t *Trie) collapseFullNode(n *fullNode) (node, bool, error) {
	remaining := -1
	for i, c := range n.Children {
		if c != nil {
			if remaining != -1 {
				return n, true, nil // still a genuine branch
			}
			remaining = i
		}
	}
	if remaining == -1 {
		return nil, true, nil // emptied entirely
	}
	if remaining == 16 {
		v, ok := n.Children[16].(valueNode)
		if !ok {
			panic("trie: collapseFullNode: slot 16 holds a non-value node")
		}
		return &shortNode{Key: []byte{nibble.Terminator}, Val: v}, true, nil
	}

	child, err := t.resolve(n.Children[remaining], []byte{byte(remaining)}, nil)
	if err != nil {
		return nil, false, err
	}
	switch c := child.(type) {
	case *shortNode:
		merged := append([]byte{byte(remaining)}, c.Key...)
		return &shortNode{Key: merged, Val: c.Val}, true, nil
	default:
		return &shortNode{Key: []byte{byte(remaining)}, Val: n.Children[remaining]}, true, nil
	}
}
