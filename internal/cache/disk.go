package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DiskCache implements BlobCache with one file per key. Keys are already
// hex digests, so they are safe to use as file names directly.
type DiskCache struct {
	mu     sync.Mutex
	config Config
	stats  Stats
}

// NewDiskCache creates a disk-backed blob cache rooted at config.Dir.
func NewDiskCache(config Config) (*DiskCache, error) {
	if config.Dir == "" {
		return nil, fmt.Errorf("cache directory not configured")
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{config: config}, nil
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.config.Dir, key+".blob")
}

// Get retrieves a blob, treating files older than the TTL as misses and
// removing them.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		c.stats.Misses++
		return nil, false
	}

	if c.config.TTL > 0 && time.Since(info.ModTime()) > c.config.TTL {
		os.Remove(path)
		c.stats.Misses++
		c.stats.Evictions++
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	return data, true
}

// Put writes the blob via a temp file rename so readers never observe a
// partial document.
func (c *DiskCache) Put(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(c.config.Dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store cache blob: %w", err)
	}

	c.stats.Puts++
	return nil
}

// Delete removes a blob.
func (c *DiskCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes all blobs.
func (c *DiskCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.keysLocked() {
		if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Keys returns all stored keys.
func (c *DiskCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keysLocked()
}

func (c *DiskCache) keysLocked() []string {
	entries, err := os.ReadDir(c.config.Dir)
	if err != nil {
		return nil
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".blob") {
			keys = append(keys, strings.TrimSuffix(name, ".blob"))
		}
	}
	return keys
}

// Stats returns cache counters.
func (c *DiskCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
