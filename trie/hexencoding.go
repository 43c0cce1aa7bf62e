package trie

import "github.com/hexmpt/hexmpt/nibble"

// keyToHex expands a caller key into its internal nibble representation,
// terminated by nibble.Terminator. Every lookup and insertion walks this
// form rather than the raw key, so a leaf's full stored path and the
// search path it must equal are always compared including the terminator.
func keyToHex(key []byte) []byte {
	hex := nibble.BytesToNibbles(key)
	return append(hex, nibble.Terminator)
}

// hexToCompact packs a shortNode.Key (terminator-inclusive nibbles) into
// its wire hex-prefix form.
func hexToCompact(hex []byte) []byte {
	isLeaf := nibble.HasTerm(hex)
	return nibble.PackHP(nibble.WithoutTerm(hex), isLeaf)
}

// compactToHex is the exact inverse of hexToCompact.
func compactToHex(compact []byte) []byte {
	ns, isLeaf := nibble.UnpackHP(compact)
	if isLeaf {
		return append(ns, nibble.Terminator)
	}
	return ns
}
