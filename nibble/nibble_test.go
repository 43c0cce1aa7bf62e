package nibble

import (
	"bytes"
	"testing"
)

func TestBytesNibblesRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x00},
		{0x12, 0x34, 0xab, 0xcd},
		[]byte("hello"),
	}
	for _, c := range cases {
		ns := BytesToNibbles(c)
		back, err := NibblesToBytes(ns)
		if err != nil {
			t.Fatalf("NibblesToBytes(%v): %v", ns, err)
		}
		if !bytes.Equal(back, c) && !(len(back) == 0 && len(c) == 0) {
			t.Fatalf("round trip mismatch: got %x want %x", back, c)
		}
	}
}

func TestBytesToNibblesOrder(t *testing.T) {
	got := BytesToNibbles([]byte{0x1f})
	want := []byte{1, 15}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNibblesToBytesInvalid(t *testing.T) {
	if _, err := NibblesToBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for odd-length nibble sequence")
	}
	var inval *InvalidNibblesError
	if _, err := NibblesToBytes([]byte{1, 16}); err == nil {
		t.Fatal("expected error for out-of-range nibble")
	} else if !asInvalidNibbles(err, &inval) {
		t.Fatalf("expected *InvalidNibblesError, got %T", err)
	}
}

func asInvalidNibbles(err error, target **InvalidNibblesError) bool {
	e, ok := err.(*InvalidNibblesError)
	if ok {
		*target = e
	}
	return ok
}

func TestStartsWith(t *testing.T) {
	if !StartsWith([]byte{1, 2, 3}, []byte{1, 2}) {
		t.Fatal("expected prefix match")
	}
	if !StartsWith([]byte{1, 2}, []byte{1, 2}) {
		t.Fatal("exact match should count as prefix")
	}
	if StartsWith([]byte{1, 2}, []byte{1, 2, 3}) {
		t.Fatal("longer prefix cannot match shorter full sequence")
	}
}

func TestPrefixLen(t *testing.T) {
	if got := PrefixLen([]byte{1, 2, 3}, []byte{1, 2, 9}); got != 2 {
		t.Fatalf("got %d want 2", got)
	}
	if got := PrefixLen(nil, []byte{1}); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestPackUnpackHPRoundTrip(t *testing.T) {
	cases := []struct {
		ns     []byte
		isLeaf bool
	}{
		{nil, false},
		{nil, true},
		{[]byte{1}, false},
		{[]byte{1}, true},
		{[]byte{1, 2}, false},
		{[]byte{1, 2}, true},
		{[]byte{0xa, 0xb, 0xc}, true},
		{[]byte{0xa, 0xb, 0xc, 0xd}, false},
	}
	for _, c := range cases {
		packed := PackHP(c.ns, c.isLeaf)
		gotNs, gotLeaf := UnpackHP(packed)
		if gotLeaf != c.isLeaf {
			t.Fatalf("PackHP(%v,%v): leaf flag got %v", c.ns, c.isLeaf, gotLeaf)
		}
		if !bytes.Equal(gotNs, c.ns) && !(len(gotNs) == 0 && len(c.ns) == 0) {
			t.Fatalf("PackHP(%v,%v): nibbles got %v", c.ns, c.isLeaf, gotNs)
		}
	}
}

func TestHasTerm(t *testing.T) {
	if HasTerm(nil) {
		t.Fatal("empty sequence has no terminator")
	}
	if !HasTerm([]byte{1, 2, Terminator}) {
		t.Fatal("expected terminator detected")
	}
	if HasTerm([]byte{1, 2}) {
		t.Fatal("unexpected terminator")
	}
}
