// Package storage persists small JSON blobs under fixed keys, one file per
// key inside the vitrine data directory. It is the local counterpart of the
// device storage the mobile clients use for the cart, wishlist and token.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the key-value persistence used by the shop state store.
type Store interface {
	// Get unmarshals the blob stored under key into dest. It reports false
	// when no blob exists for the key.
	Get(key string, dest any) (bool, error)
	// Set marshals value and stores it under key, replacing any previous blob.
	Set(key string, value any) error
	// Delete removes the blob stored under key. Deleting an absent key is not
	// an error.
	Delete(key string) error
}

// FileStore implements Store on top of a directory of JSON files.
type FileStore struct {
	dir string
}

// Ensure FileStore implements Store at compile time.
var _ Store = (*FileStore)(nil)

// NewFileStore creates the data directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("data dir is empty")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: trimmed}, nil
}

// Get implements Store.
func (s *FileStore) Get(key string, dest any) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *FileStore) Set(key string, value any) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.ContainsAny(trimmed, `/\.`) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, trimmed+".json"), nil
}
