package kv

import (
	"context"
	"sync"
)

// MemoryProvider implements Provider using an in-memory map for tests
type MemoryProvider struct {
	values map[string]string
	mu     sync.RWMutex
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key
func (m *MemoryProvider) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key
func (m *MemoryProvider) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}
