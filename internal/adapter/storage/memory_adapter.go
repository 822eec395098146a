package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryAdapter is the in-process cache. Entries set with a zero ttl live
// until deleted.
type MemoryAdapter struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		store: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *MemoryAdapter) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.store[key]
	m.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		if current, ok := m.store[key]; ok && current.expired(m.now()) {
			delete(m.store, key)
		}
		m.mu.Unlock()
		return "", false, nil
	}

	return entry.value, true, nil
}

func (m *MemoryAdapter) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	m.store[key] = m.entry(value, ttl)
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.store, key)
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) SetIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.store[key]; ok && !entry.expired(m.now()) {
		return false, nil
	}
	m.store[key] = m.entry("1", ttl)
	return true, nil
}

func (m *MemoryAdapter) Len() int {
	m.mu.RLock()
	n := len(m.store)
	m.mu.RUnlock()
	return n
}

func (m *MemoryAdapter) entry(value string, ttl time.Duration) memoryEntry {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	return entry
}
