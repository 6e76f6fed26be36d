// Package settings persists small IDE preferences such as the last project
// location.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// KeyLastProjectLocation is the directory last used to create or open a
// project.
const KeyLastProjectLocation = "project/last_location"

// Store is a string key/value store.
type Store interface {
	// Get returns the value under key, or def when unset.
	Get(key, def string) string
	Set(key, value string) error
}

// LastProjectLocation returns the remembered project location, falling back
// to the user's home directory.
func LastProjectLocation(store Store) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return store.Get(KeyLastProjectLocation, home)
}

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// FileStore is a MemoryStore written through to a YAML file on every Set.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFileStore loads path. A missing file starts empty and is created on
// the first Set.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{MemoryStore: NewMemoryStore(), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value

	data, err := yaml.Marshal(s.values)
	if err == nil {
		if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err == nil {
			err = os.WriteFile(s.path, data, 0o600)
		}
	}
	if err != nil {
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return fmt.Errorf("failed to save settings %s: %w", s.path, err)
	}
	return nil
}
