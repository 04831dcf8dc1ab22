// Package cache provides the in-memory query cache the invalidation coalescer
// refreshes against. Entries are keyed by canonical resource key; invalidation
// drops the entry so the next read refetches from the API.
package cache

import (
	"sync"

	"github.com/hoster-project/portal-sync/internal/core/domain"
	"github.com/hoster-project/portal-sync/internal/core/ports"
)

// Memory is a process-local query cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]any
}

var _ ports.Cache = (*Memory)(nil)

// NewMemory creates an empty cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]any)}
}

// Set stores a fetched value under the resource key.
func (m *Memory) Set(key domain.ResourceKey, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key.Canonical()] = value
}

// Get returns the cached value for the key, if present.
func (m *Memory) Get(key domain.ResourceKey) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key.Canonical()]
	return v, ok
}

// Invalidate drops the entry for the key. Missing keys are a no-op.
func (m *Memory) Invalidate(key domain.ResourceKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key.Canonical())
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
