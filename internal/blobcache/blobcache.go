// Package blobcache is a default implementation of the orchestrator's
// getCache/setCache archive-byte cache, content-addressed by the fetch
// URL and persisted under the user's XDG config directory. It merges two
// things the teacher kept in separate files: atomic.go's temp-file-then-
// rename write primitive, and blob.go's WriteBlob dedup check (skip the
// write if the content is already on disk under that hash) folded
// directly into Set instead of living as a separate existence check the
// caller has to remember to make. Generalized from "blob hash supplied by
// the caller" to "hash computed from the cache key" since archive fetches
// are keyed by URL, not by a precomputed content hash.
package blobcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a content-addressed byte cache for fetched template archives.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at dir, creating it if necessary.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("blobcache: open %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir returns ~/.config/dollie/cache, honoring XDG_CONFIG_HOME.
func DefaultDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("blobcache: could not determine home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "dollie", "cache"), nil
}

func (c *Cache) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}

// Get returns the cached bytes for key, and false if nothing is cached or
// the cache entry can't be read. It never returns an error: a cache miss
// is not a failure condition for the caller.
func (c *Cache) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data under key, atomically, skipping the write entirely if
// key is already cached: a content-addressed entry never changes once
// written, so there's nothing to gain from rewriting it (the same dedup
// check the teacher's blob store runs before writing a blob). A write
// failure is logged by the caller if desired but never propagated as
// fatal: losing a cache entry only costs a re-fetch.
func (c *Cache) Set(key string, data []byte) error {
	path := c.pathFor(key)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return atomicWriteFile(path, data, 0o600)
}

// atomicWriteFile writes data to a temp file in dir's directory, syncs it,
// then renames it into place, so a crash mid-write never leaves a
// truncated cache entry.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dollie-tmp-*")
	if err != nil {
		return fmt.Errorf("blobcache: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("blobcache: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("blobcache: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("blobcache: close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("blobcache: set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("blobcache: rename temp file: %w", err)
	}
	return nil
}
