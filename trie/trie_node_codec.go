package trie

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/hexmpt/hexmpt/nibble"
)

// encodeNode returns n's canonical RLP encoding: the empty string for a
// blank node, a 2-element list of [compact-key, child-ref] for a
// shortNode, or a 17-element list of child refs (the last a bare value
// or empty string) for a fullNode.
func encodeNode(n node) []byte {
	switch v := n.(type) {
	case nil:
		enc, _ := rlp.EncodeToBytes([]byte{})
		return enc
	case hashNode:
		enc, _ := rlp.EncodeToBytes([]byte(v))
		return enc
	case valueNode:
		enc, _ := rlp.EncodeToBytes([]byte(v))
		return enc
	case *shortNode:
		item := struct {
			Key []byte
			Val rlp.RawValue
		}{hexToCompact(v.Key), childRef(v.Val)}
		enc, err := rlp.EncodeToBytes(item)
		if err != nil {
			panic(fmt.Sprintf("trie: encode short node: %v", err))
		}
		return enc
	case *fullNode:
		var items [17]rlp.RawValue
		for i := 0; i < 16; i++ {
			items[i] = childRef(v.Children[i])
		}
		items[16] = valueRef(v.Children[16])
		enc, err := rlp.EncodeToBytes(items)
		if err != nil {
			panic(fmt.Sprintf("trie: encode full node: %v", err))
		}
		return enc
	default:
		panic(fmt.Sprintf("trie: encode: unsupported node type %T", n))
	}
}

// childRef returns the RLP-embeddable form of a branch slot or an
// extension's child: a raw list for an inlined node, or an RLP string for
// a hash reference or blank.
func childRef(n node) rlp.RawValue {
	switch v := n.(type) {
	case nil:
		enc, _ := rlp.EncodeToBytes([]byte{})
		return rlp.RawValue(enc)
	case hashNode:
		enc, _ := rlp.EncodeToBytes([]byte(v))
		return rlp.RawValue(enc)
	case *shortNode, *fullNode:
		return rlp.RawValue(encodeNode(v))
	default:
		panic(fmt.Sprintf("trie: childRef: unsupported node type %T", n))
	}
}

// valueRef returns the RLP string for a branch's terminal value slot:
// empty when no key ends at this node, otherwise the value bytes.
func valueRef(n node) rlp.RawValue {
	switch v := n.(type) {
	case nil:
		enc, _ := rlp.EncodeToBytes([]byte{})
		return rlp.RawValue(enc)
	case valueNode:
		enc, _ := rlp.EncodeToBytes([]byte(v))
		return rlp.RawValue(enc)
	default:
		panic(fmt.Sprintf("trie: valueRef: unsupported node type %T", n))
	}
}

// decodeNode parses buf, the canonical encoding of exactly one node, back
// into its in-memory form.
func decodeNode(buf []byte) (node, error) {
	if len(buf) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	kind, content, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, fmt.Errorf("trie: decode: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trie: decode: %d trailing bytes after node encoding", len(rest))
	}
	if kind == rlp.String {
		if len(content) != 0 {
			return nil, fmt.Errorf("trie: decode: unexpected non-empty string at node position")
		}
		return nil, nil
	}
	elems, _, err := rlp.SplitList(buf)
	if err != nil {
		return nil, fmt.Errorf("trie: decode: %w", err)
	}
	switch c, _ := rlp.CountValues(elems); c {
	case 2:
		return decodeShort(elems)
	case 17:
		return decodeFull(elems)
	default:
		return nil, fmt.Errorf("trie: decode: invalid number of list elements: %d", c)
	}
}

func decodeShort(elems []byte) (node, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return nil, fmt.Errorf("trie: decode short node key: %w", err)
	}
	key := compactToHex(common.CopyBytes(kbuf))
	if nibble.HasTerm(key) {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, fmt.Errorf("trie: decode short node value: %w", err)
		}
		return &shortNode{Key: key, Val: valueNode(common.CopyBytes(val))}, nil
	}
	ref, _, err := decodeRef(rest)
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: key, Val: ref}, nil
}

func decodeFull(elems []byte) (node, error) {
	var n fullNode
	for i := 0; i < 16; i++ {
		ref, rest, err := decodeRef(elems)
		if err != nil {
			return nil, err
		}
		n.Children[i] = ref
		elems = rest
	}
	val, _, err := rlp.SplitString(elems)
	if err != nil {
		return nil, fmt.Errorf("trie: decode full node value: %w", err)
	}
	if len(val) > 0 {
		n.Children[16] = valueNode(common.CopyBytes(val))
	}
	return &n, nil
}

// decodeRef decodes a single child reference from the front of buf,
// returning the resolved node (nil for blank, hashNode for a hash
// reference, or a decoded *shortNode/*fullNode for an inlined child) and
// the remaining unconsumed bytes.
func decodeRef(buf []byte) (node, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, buf, fmt.Errorf("trie: decode ref: %w", err)
	}
	switch {
	case kind == rlp.List:
		size := len(buf) - len(rest)
		if size > 32 {
			return nil, buf, fmt.Errorf("trie: decode ref: oversized embedded node (%d bytes)", size)
		}
		n, err := decodeNode(buf[:size])
		return n, rest, err
	case kind == rlp.String && len(val) == 0:
		return nil, rest, nil
	case kind == rlp.String && len(val) == 32:
		return hashNode(common.CopyBytes(val)), rest, nil
	default:
		return nil, buf, fmt.Errorf("trie: decode ref: invalid reference of kind %v, length %d", kind, len(val))
	}
}
