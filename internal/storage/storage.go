// Package storage provides the key/value stores that keep the setup form
// between runs: an in-memory map, Redis, and a no-op store used when the
// configured backend is unreachable.
package storage

import (
	"context"
	"sync"
)

// Keys written by the session
const (
	KeyList   = "rt_list"
	KeyCount  = "rt_count"
	KeyRadius = "rt_radius"
	KeyLat    = "rt_lat"
	KeyLng    = "rt_lng"
)

// Memory is a process-local store
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value for key and whether it was present
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Nop stores nothing. Reads always miss.
type Nop struct{}

// Get always reports a miss
func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// Set discards the value
func (Nop) Set(context.Context, string, string) error { return nil }
