package urlcache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	url       string
	expiresAt time.Time
}

// Memory is an in-process Cache with lazy TTL expiration. Entries are
// dropped on access once expired; signed-URL churn is bounded by the
// artifact working set, so no background janitor is needed.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryEntry)}
}

// Get returns the cached URL for key, or ErrNotFound.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(m.items, key)
		return "", ErrNotFound
	}
	return e.url, nil
}

// Set stores url under key for ttl.
func (m *Memory) Set(_ context.Context, key, url string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryEntry{url: url, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}
