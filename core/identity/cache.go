package identity

import (
	"sort"
	"sync"
	"time"
)

// cachedEntry wraps a resolved identity with its cache expiry. The cache TTL
// is independent of the certificate's own validity window: a still-valid
// certificate may be evicted and re-parsed, which bounds both memory and the
// exposure to stale chain-validation results.
type cachedEntry struct {
	info      CertificateInfo
	expiresAt time.Time
}

// Cache is a bounded, TTL-based cache mapping normalized credential strings
// to parsed identities. All operations are safe for concurrent use without
// caller-side locking. Keys must be normalized by the caller; the cache does
// not normalize.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cachedEntry
	maxSize int
	ttl     time.Duration
}

// NewCache creates a cache with the capacity and TTL from cfg.
// Non-positive values fall back to the defaults.
func NewCache(cfg Config) *Cache {
	if cfg.CacheMaxSize <= 0 {
		cfg.CacheMaxSize = DefaultConfig().CacheMaxSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Cache{
		entries: make(map[string]cachedEntry),
		maxSize: cfg.CacheMaxSize,
		ttl:     cfg.CacheTTL,
	}
}

// Get returns the cached identity for key. Entries past their TTL are
// treated as misses; removal is deferred to the next eviction pass.
func (c *Cache) Get(key string) (CertificateInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return CertificateInfo{}, false
	}
	return entry.info, true
}

// Add inserts an identity under key. When the cache is at capacity it first
// evicts roughly 20% of entries before inserting.
func (c *Cache) Add(key string, info CertificateInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evict()
	}

	c.entries[key] = cachedEntry{
		info:      info,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// evict removes ~20% of entries in two phases: already-expired entries first
// (cheap unordered scan), then the soonest-to-expire among the remainder.
// The sort is only paid when expired entries alone do not meet the quota.
// Callers must hold the write lock.
func (c *Cache) evict() {
	quota := c.maxSize / 5
	if quota < 1 {
		quota = 1
	}

	now := time.Now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed >= quota {
		return
	}

	type keyed struct {
		key       string
		expiresAt time.Time
	}
	remaining := make([]keyed, 0, len(c.entries))
	for key, entry := range c.entries {
		remaining = append(remaining, keyed{key: key, expiresAt: entry.expiresAt})
	}
	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].expiresAt.Before(remaining[j].expiresAt)
	})
	for _, e := range remaining {
		if removed >= quota {
			break
		}
		delete(c.entries, e.key)
		removed++
	}
}

// Len returns the current number of entries, including any not yet evicted
// expired entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries. Used only for test isolation.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cachedEntry)
}
