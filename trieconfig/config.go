// Package trieconfig wires together a store.Store and a *trie.Trie from a
// small set of functional options, the way a caller typically wants one:
// in memory for tests, on disk for a long-lived process, optionally with
// reference counting so historical roots can share subtrees safely.
package trieconfig

import (
	"fmt"

	"github.com/hexmpt/hexmpt/store"
	"github.com/hexmpt/hexmpt/store/leveldbstore"
	"github.com/hexmpt/hexmpt/store/memstore"
	"github.com/hexmpt/hexmpt/store/refcount"
	"github.com/hexmpt/hexmpt/trie"
)

type config struct {
	diskPath     string
	refcounted   bool
	root         trie.Hash
	haveRoot     bool
}

// Option configures Open.
type Option func(*config)

// WithDiskPath backs the trie with a LevelDB database at path instead of
// an ephemeral in-memory store.
func WithDiskPath(path string) Option {
	return func(c *config) { c.diskPath = path }
}

// WithRefcounting wraps the underlying store in a refcount.Store: every Put
// of a node increments its count, and a store-level Delete only removes the
// entry once that count reaches zero. Trie.Delete itself never deletes store
// entries, with or without this option.
func WithRefcounting() Option {
	return func(c *config) { c.refcounted = true }
}

// WithRoot opens the trie rooted at root instead of starting empty.
func WithRoot(root trie.Hash) Option {
	return func(c *config) { c.root, c.haveRoot = root, true }
}

// closer is implemented by stores that hold an OS resource (a LevelDB
// handle) needing an explicit release.
type closer interface {
	Close() error
}

// Open builds a store.Store and a *trie.Trie from opts and returns both:
// the trie for reads/writes, and the store so the caller can Close it (for
// disk-backed stores) when done. With WithRefcounting the returned store is
// the *refcount.Store wrapper, which has no Close method; the LevelDB handle
// beneath it is then not reachable through the returned store.
func Open(opts ...Option) (*trie.Trie, store.Store, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	var base store.Store
	if c.diskPath != "" {
		db, err := leveldbstore.Open(c.diskPath)
		if err != nil {
			return nil, nil, fmt.Errorf("trieconfig: open disk store: %w", err)
		}
		base = db
	} else {
		base = memstore.New()
	}

	var s store.Store = base
	if c.refcounted {
		s = refcount.New(base)
	}

	if c.haveRoot {
		t, err := trie.New(s, c.root)
		if err != nil {
			if cl, ok := base.(closer); ok {
				cl.Close()
			}
			return nil, nil, err
		}
		return t, s, nil
	}
	return trie.NewEmpty(s), s, nil
}
