package cache

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is the minimum time between full scans for expired entries.
const sweepInterval = time.Minute

// Memory is an in-process Cache used when no Redis URL is configured.
// Expired entries are dropped when read and by a sweep that runs on Set at
// most once per sweepInterval.
type Memory struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	closed    bool
	ttl       time.Duration
	lastSweep time.Time
	nowFunc   func() time.Time
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// NewMemory creates an empty cache whose entries default to opts.DefaultTTL.
func NewMemory(opts Options) *Memory {
	return &Memory{
		items:   make(map[string]memoryItem),
		ttl:     opts.DefaultTTL,
		nowFunc: time.Now,
	}
}

// Get returns the value stored under key, or ErrNotFound when it is missing
// or expired.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}
	item, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	if item.expired(m.nowFunc()) {
		delete(m.items, key)
		return "", ErrNotFound
	}
	return item.value, nil
}

// Set stores value under key. A zero ttl uses the default TTL; a negative
// one stores the entry without expiry.
func (m *Memory) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	if ttl == 0 {
		ttl = m.ttl
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	now := m.nowFunc()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}
	m.items[key] = item
	return nil
}

// sweep removes every expired entry. Callers hold mu.
func (m *Memory) sweep(now time.Time) {
	for key, item := range m.items {
		if item.expired(now) {
			delete(m.items, key)
		}
	}
	m.lastSweep = now
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close drops every entry; later calls return ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.items = nil
	return nil
}
