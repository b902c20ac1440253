package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cache provides local file-based caching for scan results
type Cache struct {
	Dir string
	TTL time.Duration
}

// DefaultTTL is the default cache time-to-live
const DefaultTTL = 24 * time.Hour

// DefaultDir returns the per-user cache directory for appName
func DefaultDir(appName string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cache", appName), nil
}

// New creates a cache rooted at dir, creating it if needed
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		Dir: dir,
		TTL: ttl,
	}, nil
}

// Key joins parts into one cache key. Parts are separated by NUL so that
// ("ab", "c") and ("a", "bc") never collide.
func Key(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// keyToFilename converts a key to a safe filename
func (c *Cache) keyToFilename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16]) + ".json"
}

// Path returns the full path to the cache file for a key
func (c *Cache) Path(key string) string {
	return filepath.Join(c.Dir, c.keyToFilename(key))
}

// Get retrieves data from cache if it exists and is not expired
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if time.Since(info.ModTime()) > c.TTL {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return data, true
}

// Set stores data in the cache. The file is renamed into place so
// concurrent readers never see a partial entry.
func (c *Cache) Set(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.Dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.Path(key))
}

// Clear removes all cached files
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			os.Remove(filepath.Join(c.Dir, entry.Name()))
		}
	}
	return nil
}
