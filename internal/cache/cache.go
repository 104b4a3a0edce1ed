package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the shared contract for the two caches a run may use: an
// in-memory cache in front of snapshot reads and an optional disk cache
// for generated overviews.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from one or more identifying parts,
// such as a file path and its modification time.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "newsradar:v1:" + hex.EncodeToString(hash[:])
}
