package trieconfig

import (
	"path/filepath"
	"testing"

	"github.com/hexmpt/hexmpt/store/refcount"
)

func TestOpenInMemoryDefault(t *testing.T) {
	tr, s, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := tr.Update([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := tr.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Fatalf("got %q err %v, want v", got, err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestOpenWithDiskPath(t *testing.T) {
	dir := t.TempDir()
	tr, s, err := Open(WithDiskPath(filepath.Join(dir, "nodes")))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.(interface{ Close() error }).Close()

	if err := tr.Update([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	root := tr.RootHash()

	reopened, s2, err := Open(WithDiskPath(filepath.Join(dir, "nodes")), WithRoot(root))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.(interface{ Close() error }).Close()
	got, err := reopened.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Fatalf("got %q err %v, want v", got, err)
	}
}

func TestOpenWithRefcounting(t *testing.T) {
	tr, s, err := Open(WithRefcounting())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.(*refcount.Store); !ok {
		t.Fatalf("got store type %T, want *refcount.Store", s)
	}
	if err := tr.Update([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := tr.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Fatalf("got %q err %v, want v", got, err)
	}
}
