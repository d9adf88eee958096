package providers

import (
	"sync"
	"time"
)

// DefaultHealthTTL is the default TTL for health probe caching (30 seconds).
const DefaultHealthTTL = 30 * time.Second

// healthEntry caches a single provider's probe result.
type healthEntry struct {
	healthy   bool
	checkedAt time.Time
}

// HealthRegistry caches provider health probe results with a TTL so that
// frequent availability checks do not probe on every request. It is an
// explicit, injectable registry rather than ambient global flags.
type HealthRegistry struct {
	mu      sync.RWMutex
	entries map[string]healthEntry
	ttl     time.Duration
}

// NewHealthRegistry creates a new HealthRegistry with the specified TTL.
// A TTL of 0 effectively disables caching.
func NewHealthRegistry(ttl time.Duration) *HealthRegistry {
	return &HealthRegistry{
		entries: make(map[string]healthEntry),
		ttl:     ttl,
	}
}

// Get returns the cached health status for a provider and whether the
// cached result is still within TTL.
func (r *HealthRegistry) Get(provider string) (healthy bool, valid bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[provider]
	if !ok {
		return false, false
	}
	valid = !entry.checkedAt.IsZero() && time.Since(entry.checkedAt) < r.ttl
	return entry.healthy, valid
}

// Set updates the cached health status for a provider.
func (r *HealthRegistry) Set(provider string, healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[provider] = healthEntry{
		healthy:   healthy,
		checkedAt: time.Now(),
	}
}

// Invalidate clears the cached status for a provider, forcing the next
// check to make a live probe.
func (r *HealthRegistry) Invalidate(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, provider)
}

// Snapshot returns the current cached status for all probed providers.
func (r *HealthRegistry) Snapshot() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]bool, len(r.entries))
	for name, entry := range r.entries {
		snapshot[name] = entry.healthy
	}
	return snapshot
}

// TTL returns the registry's time-to-live duration.
func (r *HealthRegistry) TTL() time.Duration {
	return r.ttl
}
