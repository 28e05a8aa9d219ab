package storage

import (
	"context"
	"sync"
	"time"
)

var _ Storage = new(Map)

// A Map stores values in memory.
//
// Server restarts reset a Map.
type Map struct {
	mu      sync.RWMutex
	vals    map[string]string
	expires map[string]time.Time
	ttl     time.Duration
	swept   time.Time
	now     func() time.Time
}

// NewMap constructs an empty *Map.
func NewMap() *Map { return &Map{vals: make(map[string]string)} }

// NewExpiringMap constructs an empty *Map whose values expire ttl after they are last set.
// A zero ttl keeps values until deleted.
func NewExpiringMap(ttl time.Duration) *Map {
	return &Map{
		vals:    make(map[string]string),
		expires: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves the value for key much like a regular map.
func (m *Map) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.vals[key]
	if !ok || m.expired(key, m.clock()) {
		return "", ErrNotExist
	}

	return val, nil
}

// Set overwrites the value paired to key in the map.
func (m *Map) Set(ctx context.Context, key, val string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.vals == nil {
		m.vals = make(map[string]string)
	}
	m.vals[key] = val

	if m.ttl > 0 {
		now := m.clock()
		if m.expires == nil {
			m.expires = make(map[string]time.Time)
		}
		m.expires[key] = now.Add(m.ttl)
		m.sweep(now)
	}

	return nil
}

// Delete removes keys from the map.
func (m *Map) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.vals, k)
		delete(m.expires, k)
	}

	return nil
}

// Len reports the number of keys stored, expired or not.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.vals)
}

func (m *Map) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}

	return m.now()
}

func (m *Map) expired(key string, now time.Time) bool {
	exp, ok := m.expires[key]
	return ok && !now.Before(exp)
}

// sweep drops expired values, at most once per ttl.
func (m *Map) sweep(now time.Time) {
	if now.Before(m.swept.Add(m.ttl)) {
		return
	}
	m.swept = now

	for k := range m.expires {
		if m.expired(k, now) {
			delete(m.vals, k)
			delete(m.expires, k)
		}
	}
}
