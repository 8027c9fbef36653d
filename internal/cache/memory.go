package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Default memory tier limits.
const (
	DefaultMaxEntries = 1024
	DefaultTTL        = 24 * time.Hour
)

// MemoryOptions configures an in-process cache. A zero MaxEntries uses DefaultMaxEntries;
// a zero TTL disables expiry.
type MemoryOptions struct {
	MaxEntries int
	TTL        time.Duration
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// Memory is a bounded LRU cache with lazy TTL expiry.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	ll         *list.List
	items      map[string]*list.Element
	now        func() time.Time
}

// NewMemory creates a memory cache.
func NewMemory(opts MemoryOptions) *Memory {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	return &Memory{
		maxEntries: opts.MaxEntries,
		ttl:        opts.TTL,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get returns a live entry and marks it most recently used.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if m.expired(entry) {
		m.removeElement(el)
		return nil, false
	}
	m.ll.MoveToFront(el)
	return entry.value, true
}

// Set stores a value, evicting the least recently used entry at capacity.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = m.now().Add(m.ttl)
	}

	if el, ok := m.items[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		m.ll.MoveToFront(el)
		return
	}

	m.items[key] = m.ll.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	for m.ll.Len() > m.maxEntries {
		m.removeElement(m.ll.Back())
	}
}

// Delete removes a key.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		m.removeElement(el)
	}
}

// Len returns the number of stored entries, including expired ones not yet collected.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

// Purge removes every entry.
func (m *Memory) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ll.Init()
	m.items = make(map[string]*list.Element)
}

func (m *Memory) expired(e *memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

func (m *Memory) removeElement(el *list.Element) {
	m.ll.Remove(el)
	delete(m.items, el.Value.(*memoryEntry).key)
}
