package leveldbstore

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/hexmpt/hexmpt/store"
)

func TestOpenPutGetClose(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "nodes"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	h := store.Hash{7}
	if _, ok, err := s.Get(h); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Put(h, []byte("disk")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(h)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte("disk")) {
		t.Fatalf("got %q want %q", got, "disk")
	}
	if has, _ := s.Has(h); !has {
		t.Fatal("expected Has true")
	}
	if err := s.Delete(h); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if has, _ := s.Has(h); has {
		t.Fatal("expected Has false after delete")
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes")
	h := store.Hash{8}

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s1.Put(h, []byte("persisted")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, ok, err := s2.Get(h)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte("persisted")) {
		t.Fatalf("got %q want %q", got, "persisted")
	}
}
