package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreLoadOrCreateIsStable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "identity")
	store := NewFileStore(dir)

	first, err := store.LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate (first): %v", err)
	}

	second, err := store.LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate (second): %v", err)
	}

	if first.Certificate.SerialNumber.Cmp(second.Certificate.SerialNumber) != 0 {
		t.Error("serial numbers differ across loads")
	}
	if first.PrivateKey.N.Cmp(second.PrivateKey.N) != 0 {
		t.Error("second LoadOrCreate produced a different key; identity is not stable")
	}
}

func TestFileStoreLoadMissingReturnsNotExist(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"))
	if _, err := store.Load(); !os.IsNotExist(err) {
		t.Errorf("Load from an empty directory: err = %v, want an os.IsNotExist error", err)
	}
}
