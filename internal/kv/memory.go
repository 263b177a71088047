package kv

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrInjected is returned by Memory.Put after SetFailPuts(true).
var ErrInjected = errors.New("kv: injected write failure")

// Memory is an in-process store. Values are copied on the way in and out.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	puts    int
	failing bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return ErrInjected
	}
	m.entries[key] = append([]byte{}, value...)
	m.puts++
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Puts returns the number of successful Put calls.
func (m *Memory) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// SetFailPuts makes every subsequent Put return ErrInjected until reset.
func (m *Memory) SetFailPuts(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = fail
}
