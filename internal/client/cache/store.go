// Package cache is a best-effort, file-backed mirror of recipe data for
// offline display. Each key is stored as one JSON file; entries that fail to
// decode are treated as corrupt and removed on read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/filex"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

const fileExt = ".json"

var ErrEmptyKey = errors.New("cache key must not be empty")

// Store keeps one JSON file per key under dir. There is no eviction and no
// size limit; Clear is the only way entries disappear in bulk.
type Store struct {
	dir string
	log logging.Logger
}

// NewStore creates dir if needed.
func NewStore(dir string, log logging.Logger) (*Store, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{dir: abs, log: log}, nil
}

// Dir returns the absolute cache directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileExt)
}

// Get decodes the entry for key into v. It reports false when the entry is
// absent or unreadable; an undecodable entry is deleted as a side effect.
func (s *Store) Get(key string, v any) bool {
	if key == "" {
		return false
	}

	p := s.path(key)
	data, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(context.Background(), "cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn(context.Background(), "dropping corrupt cache entry", "key", key, "error", err)
		if rmErr := os.Remove(p); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			s.log.Warn(context.Background(), "cache entry removal failed", "key", key, "error", rmErr)
		}
		return false
	}
	return true
}

// Put fully replaces the entry for key with the JSON encoding of v.
func (s *Store) Put(key string, v any) error {
	if key == "" {
		return ErrEmptyKey
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}

	if err := filex.WriteFileAtomic(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("write cache entry %q: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key; a missing entry is not an error.
func (s *Store) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete cache entry %q: %w", key, err)
	}
	return nil
}

// Clear removes every cached entry, e.g. on sign-out.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("list cache dir: %w", err)
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
