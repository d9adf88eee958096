package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"claimcheck/observability"
)

// Store is a content-keyed, TTL-based cache. Keys are namespaced by the
// operation kind ("quote", "indicator", "llm") so the same raw key can be
// cached independently per operation. Implementations must be safe for
// concurrent use; entries expire by TTL rather than explicit invalidation.
type Store interface {
	Get(ctx context.Context, operation, key string) ([]byte, bool)
	Set(ctx context.Context, operation, key string, value []byte, ttl time.Duration) error
}

// Key hashes a raw cache key. Long keys (LLM prompts) collapse to a fixed
// size; the hash is the contract, not the raw bytes.
func Key(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

type bypassKey struct{}

// WithBypass marks a context so cache reads and writes are skipped for the
// rest of the request. Used when a caller asks for fresh data.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

// Bypassed reports whether caching is disabled for this context.
func Bypassed(ctx context.Context) bool {
	bypass, _ := ctx.Value(bypassKey{}).(bool)
	return bypass
}

// MemoryStore is an in-process Store backed by go-cache.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore creates a MemoryStore. Expired entries are purged on the
// given cleanup interval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		c: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a cached value.
func (s *MemoryStore) Get(ctx context.Context, operation, key string) ([]byte, bool) {
	metrics := observability.GetMetrics()
	val, found := s.c.Get(operation + ":" + key)
	if !found {
		metrics.RecordCacheMiss(operation)
		return nil, false
	}
	metrics.RecordCacheHit(operation)
	return val.([]byte), true
}

// Set stores a value with a TTL.
func (s *MemoryStore) Set(ctx context.Context, operation, key string, value []byte, ttl time.Duration) error {
	s.c.Set(operation+":"+key, value, ttl)
	return nil
}

var _ Store = (*MemoryStore)(nil)
