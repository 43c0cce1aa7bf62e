package trie

import (
	"fmt"

	"github.com/hexmpt/hexmpt/nibble"
)

// node is any of the shapes a trie position can hold: nil (blank),
// valueNode, hashNode, *shortNode, or *fullNode.
type node any

type (
	// valueNode is a leaf's stored payload, held inline in its parent.
	valueNode []byte

	// hashNode is an unresolved reference to a node that has been written
	// to the store under its hash; Get/Update dereference it on demand.
	hashNode []byte

	// shortNode is either a leaf or an extension, distinguished by whether
	// Key carries a trailing nibble.Terminator: a leaf's Val is a
	// valueNode, an extension's Val is a deeper node or hashNode.
	shortNode struct {
		Key []byte
		Val node
	}

	// fullNode is a 16-way branch plus a terminal value slot at index 16
	// for keys that end exactly at this position.
	fullNode struct {
		Children [17]node
	}
)

func (n *shortNode) copy() *shortNode {
	cp := *n
	return &cp
}

func (n *fullNode) copy() *fullNode {
	cp := *n
	return &cp
}

// nodeKind classifies a resolved node by the taxonomy the wire format
// distinguishes: blank, leaf, extension, or branch.
type nodeKind int

const (
	KindBlank nodeKind = iota
	KindLeaf
	KindExtension
	KindBranch
)

//go:generate stringer -type=nodeKind

// classify reports the nodeKind of a fully resolved node. It panics on
// valueNode and hashNode, which are never themselves trie positions: a
// hashNode must be resolved first, and a valueNode only ever appears
// embedded inside a shortNode or fullNode.
func classify(n node) nodeKind {
	switch v := n.(type) {
	case nil:
		return KindBlank
	case *shortNode:
		if nibble.HasTerm(v.Key) {
			return KindLeaf
		}
		return KindExtension
	case *fullNode:
		return KindBranch
	default:
		panic(fmt.Sprintf("trie: classify: unexpected node type %T", n))
	}
}

var branchIndices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[16]"}

// fstring pretty-prints n and its descendants, indenting nested branches
// by two spaces per level. It does not resolve hashNode references: an
// unresolved child prints as its bare hash.
func fstring(n node, ind string) string {
	switch v := n.(type) {
	case nil:
		return "<nil> "
	case valueNode:
		return fmt.Sprintf("%x ", []byte(v))
	case hashNode:
		return fmt.Sprintf("<%x> ", []byte(v))
	case *shortNode:
		return fmt.Sprintf("{%x: %v} ", v.Key, fstring(v.Val, ind+"  "))
	case *fullNode:
		resp := fmt.Sprintf("[\n%s  ", ind)
		for i, child := range &v.Children {
			if child == nil {
				resp += fmt.Sprintf("%s: <nil> ", branchIndices[i])
			} else {
				resp += fmt.Sprintf("%s: %v", branchIndices[i], fstring(child, ind+"  "))
			}
		}
		return resp + fmt.Sprintf("\n%s] ", ind)
	default:
		panic(fmt.Sprintf("trie: fstring: unexpected node type %T", n))
	}
}
