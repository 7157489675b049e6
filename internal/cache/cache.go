// Package cache stores rendered exports keyed by trace content, so that
// re-running traceplot over an unchanged trace skips the parse and render
// work entirely. The parsing core itself is pure and never touches the
// cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/avolkov/traceplot/internal/model"
)

// Key derives a cache key from the raw trace blob and the unit conversion
// factor. The factor is part of the key because exports are stored already
// converted; the same trace rendered at a different scale is a different
// artifact.
func Key(blob string, scale float64) string {
	h := sha256.New()
	h.Write([]byte(blob))
	fmt.Fprintf(h, "|scale=%g", scale)
	return "traceplot:v1:" + hex.EncodeToString(h.Sum(nil))
}

// Store is a two-level export cache. The in-memory level absorbs repeat
// lookups within one process (a batch run may list the same trace twice);
// the directory of export files survives across runs. Disk entries hold
// the marshaled export verbatim, with expiry derived from the file's
// modification time.
type Store struct {
	memory  *gocache.Cache
	dir     string
	diskTTL time.Duration
}

// NewStore creates a store from the cache configuration
func NewStore(cfg model.CacheConfig) *Store {
	return &Store{
		memory:  gocache.New(cfg.MemoryTTL, cfg.MemoryTTL),
		dir:     cfg.Dir,
		diskTTL: cfg.DiskTTL,
	}
}

// Get looks the key up in memory first, then on disk. Disk hits are
// promoted to memory; a disk entry older than the disk TTL is removed and
// reported as a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	if val, found := s.memory.Get(key); found {
		return val.([]byte), true
	}

	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > s.diskTTL {
		_ = os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	s.memory.SetDefault(key, data)
	return data, true
}

// Put stores the marshaled export in both levels
func (s *Store) Put(key string, data []byte) error {
	s.memory.SetDefault(key, data)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Drop removes the key from both levels
func (s *Store) Drop(key string) {
	s.memory.Delete(key)
	_ = os.Remove(s.path(key))
}

// Purge empties both levels
func (s *Store) Purge() error {
	s.memory.Flush()
	return os.RemoveAll(s.dir)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
