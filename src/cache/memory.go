package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is an in-process ICacheStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// -----------------------------------------------------------------------------

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expired(m.now()) {
		return entry.value, true, nil
	}

	// A Set may have replaced the entry since the read lock was released
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if current.expired(m.now()) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return current.value, true, nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryStore) Close() error {
	return nil
}
