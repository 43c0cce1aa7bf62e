package trie

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hexmpt/hexmpt/nibble"
)

// DeepestAncestor returns the node anchoring prefix: the deepest node on
// the path from the root whose accumulated on-path nibbles equal prefix,
// or nil if no key in the trie starts with prefix.
func (t *Trie) DeepestAncestor(prefix []byte) (node, error) {
	n, _, err := t.deepestAncestorWithProof(prefix, nil)
	return n, err
}

func (t *Trie) deepestAncestorWithProof(prefix []byte, proof *proofAccumulator) (node, []byte, error) {
	remaining := nibble.BytesToNibbles(prefix)
	seen := make([]byte, 0, len(remaining))
	anchor, err := t.deepestAncestor(t.root, remaining, &seen, proof)
	if err != nil {
		return nil, nil, err
	}
	return anchor, seen, nil
}

func (t *Trie) deepestAncestor(n node, remaining []byte, seen *[]byte, proof *proofAccumulator) (node, error) {
	if len(remaining) == 0 {
		return n, nil
	}
	switch nd := n.(type) {
	case nil:
		return nil, nil
	case valueNode:
		return nil, nil
	case hashNode:
		resolved, err := t.resolve(nd, *seen, proof)
		if err != nil {
			return nil, err
		}
		return t.deepestAncestor(resolved, remaining, seen, proof)
	case *shortNode:
		isLeaf := nibble.HasTerm(nd.Key)
		pathNibbles := nibble.WithoutTerm(nd.Key)
		cmp := nibble.PrefixLen(pathNibbles, remaining)
		switch {
		case cmp == len(remaining):
			return nd, nil
		case isLeaf:
			return nil, nil
		case cmp == len(pathNibbles):
			*seen = append(*seen, pathNibbles...)
			resolvedVal, err := t.resolve(nd.Val, append([]byte(nil), *seen...), proof)
			if err != nil {
				return nil, err
			}
			return t.deepestAncestor(resolvedVal, remaining[cmp:], seen, proof)
		default:
			return nil, nil
		}
	case *fullNode:
		idx := remaining[0]
		child := nd.Children[idx]
		if len(remaining) == 1 {
			*seen = append(*seen, remaining...)
			return t.resolve(child, *seen, proof)
		}
		if child == nil {
			return nil, nil
		}
		*seen = append(*seen, idx)
		resolvedChild, err := t.resolve(child, append([]byte(nil), *seen...), proof)
		if err != nil {
			return nil, err
		}
		return t.deepestAncestor(resolvedChild, remaining[1:], seen, proof)
	default:
		panic(fmt.Sprintf("trie: deepestAncestor: invalid node %T", n))
	}
}

// ToDict returns every key/value pair stored in the trie, as a map keyed
// by the raw key bytes.
func (t *Trie) ToDict() (map[string][]byte, error) {
	out := make(map[string][]byte)
	if err := t.collectSubtree(t.root, nil, out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// GetKeysWithPrefix returns every key (and its value) stored under prefix,
// as a map keyed by the raw key bytes. It returns an empty map, not an
// error, if no key starts with prefix.
func (t *Trie) GetKeysWithPrefix(prefix []byte) (map[string][]byte, error) {
	return t.getKeysWithPrefix(prefix, nil)
}

// GetKeysWithPrefixAndProof is GetKeysWithPrefix plus the referenced nodes
// visited while locating and enumerating the subtree, suitable for
// VerifyProofOfExistenceMultiKeys.
func (t *Trie) GetKeysWithPrefixAndProof(prefix []byte) (map[string][]byte, [][]byte, error) {
	proof := newProofAccumulator()
	out, err := t.getKeysWithPrefix(prefix, proof)
	if err != nil {
		return nil, nil, err
	}
	return out, proof.nodes, nil
}

func (t *Trie) getKeysWithPrefix(prefix []byte, proof *proofAccumulator) (map[string][]byte, error) {
	// The root is held decoded in memory, so resolve never records it.
	if proof != nil && t.root != nil {
		proof.add(encodeNode(t.root))
	}
	anchor, seen, err := t.deepestAncestorWithProof(prefix, proof)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte)
	if anchor == nil {
		return out, nil
	}
	if err := t.collectSubtree(anchor, seen, out, proof); err != nil {
		return nil, err
	}
	return out, nil
}

// collectSubtree walks every key reachable under n, recording each into
// out under its full key bytes. pathNibbles is the terminator-free nibble
// path already consumed to reach n. Sibling branches of a fullNode are
// walked concurrently.
func (t *Trie) collectSubtree(n node, pathNibbles []byte, out map[string][]byte, proof *proofAccumulator) error {
	switch nd := n.(type) {
	case nil:
		return nil

	case hashNode:
		resolved, err := t.resolve(nd, pathNibbles, proof)
		if err != nil {
			return err
		}
		return t.collectSubtree(resolved, pathNibbles, out, proof)

	case *shortNode:
		full := append(append([]byte(nil), pathNibbles...), nd.Key...)
		if nibble.HasTerm(nd.Key) {
			keyBytes, err := nibble.NibblesToBytes(nibble.WithoutTerm(full))
			if err != nil {
				return fmt.Errorf("trie: collectSubtree: %w", err)
			}
			out[string(keyBytes)] = []byte(nd.Val.(valueNode))
			return nil
		}
		resolved, err := t.resolve(nd.Val, full, proof)
		if err != nil {
			return err
		}
		return t.collectSubtree(resolved, full, out, proof)

	case *fullNode:
		if v, ok := nd.Children[16].(valueNode); ok {
			keyBytes, err := nibble.NibblesToBytes(pathNibbles)
			if err != nil {
				return fmt.Errorf("trie: collectSubtree: %w", err)
			}
			out[string(keyBytes)] = []byte(v)
		}

		locals := make([]map[string][]byte, 16)
		g, ctx := errgroup.WithContext(context.Background())
		for i := 0; i < 16; i++ {
			i := i
			child := nd.Children[i]
			if child == nil {
				continue
			}
			g.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				local := make(map[string][]byte)
				childPath := append(append([]byte(nil), pathNibbles...), byte(i))
				resolved, err := t.resolve(child, childPath, proof)
				if err != nil {
					return err
				}
				if err := t.collectSubtree(resolved, childPath, local, proof); err != nil {
					return err
				}
				locals[i] = local
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, local := range locals {
			for k, v := range local {
				out[k] = v
			}
		}
		return nil

	case valueNode:
		keyBytes, err := nibble.NibblesToBytes(pathNibbles)
		if err != nil {
			return fmt.Errorf("trie: collectSubtree: %w", err)
		}
		out[string(keyBytes)] = []byte(nd)
		return nil

	default:
		panic(fmt.Sprintf("trie: collectSubtree: invalid node %T", n))
	}
}
