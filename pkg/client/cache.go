package client

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// QueryCache holds the results of queries by key. Entries older than the
// stale time are refetched, mutations drop or rewrite them explicitly.
type QueryCache struct {
	mu        sync.RWMutex
	staleTime time.Duration
	entries   map[string]cacheEntry
}

func NewQueryCache(staleTime time.Duration) *QueryCache {
	return &QueryCache{
		staleTime: staleTime,
		entries:   make(map[string]cacheEntry),
	}
}

func (v *QueryCache) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	entry, ok := v.entries[key]
	if !ok || time.Since(entry.fetchedAt) > v.staleTime {
		return nil, false
	}
	return entry.value, true
}

func (v *QueryCache) Set(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[key] = cacheEntry{value: value, fetchedAt: time.Now()}
}

// Invalidate drops every entry whose key starts with one of the prefixes.
func (v *QueryCache) Invalidate(prefixes ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key := range v.entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(v.entries, key)
				break
			}
		}
	}
}

func (v *QueryCache) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = make(map[string]cacheEntry)
}

// Update rewrites the entries under the prefix in place. The fetch time is
// kept, a merged entry goes stale when the fetched one would have.
func (v *QueryCache) Update(prefix string, fn func(key string, value any) any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for key, entry := range v.entries {
		if strings.HasPrefix(key, prefix) {
			entry.value = fn(key, entry.value)
			v.entries[key] = entry
		}
	}
}

func (v *QueryCache) Keys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	keys := make([]string, 0, len(v.entries))
	for key := range v.entries {
		keys = append(keys, key)
	}
	return keys
}
