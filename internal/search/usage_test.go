package search

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUsageStoreCountAndIncrement(t *testing.T) {
	store := NewUsageStoreAt(filepath.Join(t.TempDir(), "usage.json"))

	if got := store.Count(); got != 0 {
		t.Errorf("initial count = %d, want 0", got)
	}

	for want := 1; want <= 3; want++ {
		got, err := store.Increment()
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if got != want {
			t.Errorf("increment returned %d, want %d", got, want)
		}
		if store.Count() != want {
			t.Errorf("count = %d, want %d", store.Count(), want)
		}
	}
}

func TestUsageStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")

	first := NewUsageStoreAt(path)
	first.Increment()
	first.Increment()

	second := NewUsageStoreAt(path)
	if got := second.Count(); got != 2 {
		t.Errorf("count from fresh instance = %d, want 2", got)
	}
}

func TestUsageStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	store := NewUsageStoreAt(path)

	store.Increment()
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := store.Count(); got != 0 {
		t.Errorf("count after clear = %d, want 0", got)
	}

	// Clearing an absent counter is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("clear of missing file: %v", err)
	}
}

func TestUsageStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewUsageStoreAt(path)
	if got := store.Count(); got != 0 {
		t.Errorf("count for corrupt file = %d, want 0", got)
	}

	// Incrementing starts over from the readable state.
	if got, err := store.Increment(); err != nil || got != 1 {
		t.Errorf("increment = (%d, %v), want (1, nil)", got, err)
	}
}

func TestUsageStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "painscout", "usage.json")
	store := NewUsageStoreAt(path)

	if _, err := store.Increment(); err != nil {
		t.Fatalf("increment with missing parent dirs: %v", err)
	}
	if got := store.Count(); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}
