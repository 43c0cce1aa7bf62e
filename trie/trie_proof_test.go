package trie

import (
	"testing"

	"github.com/hexmpt/hexmpt/store/memstore"
)

func TestGetWithProofVerifies(t *testing.T) {
	tr := NewEmpty(memstore.New())
	entries := map[string]string{
		"do":    "verb",
		"dog":   "puppy",
		"doge":  "coin",
		"horse": "stallion",
	}
	for k, v := range entries {
		if err := tr.Update([]byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	value, proof, err := tr.GetWithProof([]byte("dog"))
	if err != nil {
		t.Fatalf("GetWithProof: %v", err)
	}
	if string(value) != "puppy" {
		t.Fatalf("got %q, want puppy", value)
	}
	if !VerifyProofOfExistence(tr.RootHash(), []byte("dog"), []byte("puppy"), proof) {
		t.Fatal("expected proof to verify")
	}
}

func TestVerifyProofOfExistenceRejectsWrongValue(t *testing.T) {
	tr := NewEmpty(memstore.New())
	if err := tr.Update([]byte("dog"), []byte("puppy")); err != nil {
		t.Fatal(err)
	}
	_, proof, err := tr.GetWithProof([]byte("dog"))
	if err != nil {
		t.Fatal(err)
	}
	if VerifyProofOfExistence(tr.RootHash(), []byte("dog"), []byte("wrong"), proof) {
		t.Fatal("expected proof to fail for wrong value")
	}
}

func TestVerifyProofOfExistenceRejectsIncompleteProof(t *testing.T) {
	tr := NewEmpty(memstore.New())
	entries := []string{"do", "dog", "doge", "horse"}
	for _, k := range entries {
		if err := tr.Update([]byte(k), []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	_, proof, err := tr.GetWithProof([]byte("dog"))
	if err != nil {
		t.Fatal(err)
	}
	if len(proof) == 0 {
		t.Skip("trie small enough that the root itself inlines the leaf; nothing to truncate")
	}
	truncated := proof[:len(proof)-1]
	if VerifyProofOfExistence(tr.RootHash(), []byte("dog"), []byte("dog"), truncated) {
		t.Fatal("expected truncated proof to fail")
	}
}

func TestVerifyProofOfExistenceMultiKeys(t *testing.T) {
	tr := NewEmpty(memstore.New())
	entries := map[string]string{"do": "verb", "dog": "puppy", "doge": "coin", "horse": "stallion"}
	for k, v := range entries {
		if err := tr.Update([]byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
	}
	_, proof, err := tr.GetKeysWithPrefixAndProof(nil)
	if err != nil {
		t.Fatal(err)
	}
	kv := make(map[string][]byte, len(entries))
	for k, v := range entries {
		kv[k] = []byte(v)
	}
	if !VerifyProofOfExistenceMultiKeys(tr.RootHash(), kv, proof) {
		t.Fatal("expected multi-key proof to verify")
	}
}
