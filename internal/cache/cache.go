// Package cache persists per-file analysis facts between runs, keyed by
// source path and validated against a content hash.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// DefaultTTL is how long a cached entry stays valid. Hash validation
// catches content changes; the TTL only bounds disk growth from files
// that no longer exist.
const DefaultTTL = 14 * 24 * time.Hour

// Cache is a file-backed fact store. A disabled cache is a valid value
// that misses on every lookup.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

type entry struct {
	Hash    string          `json:"hash"`
	SavedAt time.Time       `json:"savedAt"`
	Facts   json.RawMessage `json:"facts"`
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "lignin")
}

// New creates a cache rooted at dir. A zero ttl means DefaultTTL.
func New(dir string, ttl time.Duration, enabled bool) (*Cache, error) {
	if !enabled || dir == "" {
		return &Cache{}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{dir: dir, ttl: ttl, enabled: true}, nil
}

// Enabled reports whether lookups can ever hit.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashBytes returns the hex content hash used for validation.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached facts for path when the stored hash matches
// and the entry has not expired.
func (c *Cache) Get(path, hash string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	data, err := os.ReadFile(c.entryPath(path))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.Hash != hash {
		return nil, false
	}
	if time.Since(e.SavedAt) > c.ttl {
		os.Remove(c.entryPath(path))
		return nil, false
	}

	return e.Facts, true
}

// Put stores facts for path under the given content hash. Failures are
// returned but callers treat the cache as best-effort.
func (c *Cache) Put(path, hash string, facts []byte) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(entry{
		Hash:    hash,
		SavedAt: time.Now(),
		Facts:   facts,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(path), data, 0o644)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
	return nil
}

// entryPath hashes the source path so entries stay flat and filename-safe.
func (c *Cache) entryPath(path string) string {
	return filepath.Join(c.dir, HashBytes([]byte(path))+".json")
}
