package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Values written through Set are kept as JSON
// strings; Seed can plant pre-parsed documents the way some remote clients
// return them.
type Memory struct {
	mu     sync.Mutex
	values map[string]any
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

func (m *Memory) Get(_ context.Context, key string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNil
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// Seed stores an arbitrary value under key.
func (m *Memory) Seed(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Update holds the store lock for the whole read-modify-write.
func (m *Memory) Update(_ context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.values[key]
	next, err := fn(current, exists)
	if err != nil {
		return err
	}
	m.values[key] = next
	return nil
}

func (m *Memory) Close() error { return nil }
