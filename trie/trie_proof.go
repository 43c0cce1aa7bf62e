package trie

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/hexmpt/hexmpt/store/memstore"
)

// proofAccumulator collects the raw encodings of every referenced
// (non-inlined) node resolved during a traversal, deduplicated and in
// traversal order. It is safe for concurrent use by the parallel subtree
// walk in trie_prefix.go.
type proofAccumulator struct {
	mu    sync.Mutex
	seen  map[string]bool
	nodes [][]byte
}

func newProofAccumulator() *proofAccumulator {
	return &proofAccumulator{seen: make(map[string]bool)}
}

func (p *proofAccumulator) add(enc []byte) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	key := string(enc)
	if p.seen[key] {
		return
	}
	p.seen[key] = true
	cp := make([]byte, len(enc))
	copy(cp, enc)
	p.nodes = append(p.nodes, cp)
}

// VerifyProofOfExistence reports whether proof is sufficient to prove that
// key maps to value under root, by replaying a lookup against a fresh
// trie seeded with nothing but the given proof nodes.
func VerifyProofOfExistence(root Hash, key, value []byte, proof [][]byte) bool {
	tr, err := trieFromProof(root, proof)
	if err != nil {
		slog.Warn("trie proof verification failed", "key", fmt.Sprintf("%x", key), "err", err)
		return false
	}
	got, err := tr.Get(key)
	if err != nil {
		slog.Warn("trie proof verification failed", "key", fmt.Sprintf("%x", key), "err", err)
		return false
	}
	return bytes.Equal(got, value)
}

// VerifyProofOfExistenceMultiKeys reports whether proof is sufficient to
// prove every key/value pair in kv under root.
func VerifyProofOfExistenceMultiKeys(root Hash, kv map[string][]byte, proof [][]byte) bool {
	tr, err := trieFromProof(root, proof)
	if err != nil {
		slog.Warn("trie multi-key proof verification failed", "err", err)
		return false
	}
	for k, v := range kv {
		got, err := tr.Get([]byte(k))
		if err != nil {
			slog.Warn("trie multi-key proof verification failed", "key", fmt.Sprintf("%x", k), "err", err)
			return false
		}
		if !bytes.Equal(got, v) {
			return false
		}
	}
	return true
}

// trieFromProof builds a trie over a store seeded with nothing but the
// given proof nodes. Its logger discards output: a missing or malformed
// node encountered while replaying a lookup against it is an expected,
// recovered outcome of verification, not a normal-operation failure worth
// an Error log, so the caller logs a single Warn instead.
func trieFromProof(root Hash, proof [][]byte) (*Trie, error) {
	s := memstore.New()
	for _, blob := range proof {
		h := hashBytes(blob)
		if err := s.Put(h, blob); err != nil {
			return nil, err
		}
	}
	tr := &Trie{store: s, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if root == (Hash{}) || root == emptyRoot {
		tr.rootHash = emptyRoot
		return tr, nil
	}
	n, err := tr.resolve(hashNode(root[:]), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("trie: open root %s: %w", root.Hex(), err)
	}
	tr.root = n
	tr.rootHash = root
	return tr, nil
}
