package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Tomas5220/f1-api/internal/metrics"
)

const memoryBackend = "memory"

// MemoryStore is an in-process Store backed by go-cache. Values are kept
// JSON-encoded so callers never share memory with a cached entry.
type MemoryStore struct {
	cache     *gocache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewMemoryStore creates a store with a default ttl and expiry sweep interval
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get decodes a cached value into dst
func (m *MemoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, found := m.cache.Get(key)
	if !found {
		m.missCount.Add(1)
		metrics.RecordCacheLookup(memoryBackend, false)
		return false, nil
	}

	data, ok := raw.([]byte)
	if !ok {
		m.cache.Delete(key)
		m.missCount.Add(1)
		metrics.RecordCacheLookup(memoryBackend, false)
		return false, nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}

	m.hitCount.Add(1)
	metrics.RecordCacheLookup(memoryBackend, true)
	return true, nil
}

// Set encodes and stores value
func (m *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	m.cache.Set(key, data, ttl)
	return nil
}

// Delete removes keys, ignoring ones not present
func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.cache.Delete(key)
	}
	return nil
}

// Flush removes every entry and resets the counters
func (m *MemoryStore) Flush(_ context.Context) error {
	m.cache.Flush()
	m.hitCount.Store(0)
	m.missCount.Store(0)
	return nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

// Stats returns cache statistics
func (m *MemoryStore) Stats() (hits, misses uint64, ratio float64) {
	hits = m.hitCount.Load()
	misses = m.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache, expired ones included
func (m *MemoryStore) ItemCount() int {
	return m.cache.ItemCount()
}
