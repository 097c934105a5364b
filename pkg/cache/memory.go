package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Entries are kept as encoded bytes so a
// caller can never mutate what another caller will read.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	data    []byte
	expires time.Time
}

// NewMemoryStore creates an empty in-process cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for expiry (for testing).
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Get retrieves a cache entry by key.
func (s *MemoryStore) Get(_ context.Context, key Key) (*Entry, error) {
	k := key.String()

	s.mu.RLock()
	item, ok := s.items[k]
	now := s.now()
	s.mu.RUnlock()

	if !ok || !now.Before(item.expires) {
		if ok {
			s.evict(k, item.expires)
		}
		CacheMisses.WithLabelValues(layerMemory).Inc()
		return nil, ErrCacheMiss
	}

	var entry Entry
	if err := json.Unmarshal(item.data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	CacheHits.WithLabelValues(layerMemory).Inc()
	return &entry, nil
}

// evict removes k if it still holds the expired item.
func (s *MemoryStore) evict(k string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.items[k]; ok && cur.expires.Equal(expires) {
		delete(s.items, k)
	}
}

// Set stores a cache entry for ttl.
func (s *MemoryStore) Set(_ context.Context, key Key, entry *Entry, ttl time.Duration) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive (got %s)", ttl)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	s.mu.Lock()
	s.items[key.String()] = memoryItem{data: data, expires: s.now().Add(ttl)}
	s.mu.Unlock()

	CacheSize.WithLabelValues(layerMemory).Add(float64(len(data)))
	return nil
}

// Len returns the number of stored entries, including expired ones not yet read.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
