// Package cache stores raw price-list documents between collect runs so
// unchanged offer versions are never downloaded twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// BlobCache is a byte-blob store keyed by content-addressed keys.
type BlobCache interface {
	// Get retrieves a blob; the second return is false on miss or expiry.
	Get(key string) ([]byte, bool)

	// Put stores a blob under key.
	Put(key string, data []byte) error

	// Delete removes a blob.
	Delete(key string) error

	// Clear removes all blobs.
	Clear() error

	// Keys returns all stored keys.
	Keys() []string

	// Stats returns hit/miss counters.
	Stats() Stats
}

// Stats holds cache performance counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Puts      int64 `json:"puts"`
	Evictions int64 `json:"evictions"`
}

// Config holds blob cache configuration.
type Config struct {
	// Dir is the directory blobs are written to.
	Dir string `json:"dir"`

	// TTL bounds how long a blob stays valid. Zero means forever, which
	// suits immutable versioned documents.
	TTL time.Duration `json:"ttl"`
}

// Key derives a content-addressed cache key from the identifying parts of
// a request (service code, version id, ...).
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
