package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileStore keeps each document in its own JSON file under a directory.
// File names are derived from a hash of the key, sharded by the first two
// hex characters, and each file records its original key.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir, or in DefaultDir when dir is
// empty. The directory is created if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns $XDG_DATA_HOME/meldgrid/documents, falling back to
// ~/.local/share/meldgrid/documents.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "meldgrid", "documents"), nil
}

// fileEntry wraps a document with its key.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get reads the document under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := readEntry(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e.Data, true, nil
}

// Set writes the document under key. The file is replaced atomically.
func (s *FileStore) Set(ctx context.Context, key string, data []byte) error {
	entry, err := json.Marshal(fileEntry{Key: key, Data: data, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, entry, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes the document under key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List walks the store directory and returns the keys with prefix.
// Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		e, err := readEntry(path)
		if err != nil {
			return nil
		}
		if strings.HasPrefix(e.Key, prefix) {
			keys = append(keys, e.Key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file that holds key.
func (s *FileStore) Path(key string) string { return s.path(key) }

// path converts a key to a file path, using the first two hash characters
// as a subdirectory.
func (s *FileStore) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

func readEntry(path string) (fileEntry, error) {
	var e fileEntry
	data, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("parse %s: %w", path, err)
	}
	return e, nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
