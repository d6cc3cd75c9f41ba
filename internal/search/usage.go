package search

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// UsageStore is a file-backed guest search counter, the CLI's equivalent of
// the browser's local storage cell. The count only grows until a sign-in
// clears it.
type UsageStore struct {
	path string
}

type usageFile struct {
	Count int `json:"count"`
}

// NewUsageStore creates a store under the user's config directory.
func NewUsageStore() (*UsageStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewUsageStoreAt(filepath.Join(dir, "painscout", "usage.json")), nil
}

// NewUsageStoreAt creates a store at an explicit path.
func NewUsageStoreAt(path string) *UsageStore {
	return &UsageStore{path: path}
}

// Count returns the persisted guest search count, 0 if none is recorded.
func (s *UsageStore) Count() int {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	var u usageFile
	if err := json.Unmarshal(raw, &u); err != nil || u.Count < 0 {
		return 0
	}
	return u.Count
}

// Increment adds one consumed search and returns the new count.
func (s *UsageStore) Increment() (int, error) {
	count := s.Count() + 1
	if err := s.write(usageFile{Count: count}); err != nil {
		return 0, err
	}
	return count, nil
}

// Clear removes the counter. Called after a successful sign-in.
func (s *UsageStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *UsageStore) write(u usageFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
