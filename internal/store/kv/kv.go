// Package kv provides synchronous string-keyed media that the task
// adapter persists into. A medium keeps insertion order, like browser
// local storage does.
package kv

import "sync"

// Medium is the persistence port. Implementations must be safe to call
// from a single goroutine at a time; Memory and File also lock internally.
type Medium interface {
	Get(key string) (value string, ok bool, err error)
	// Set overwrites an existing key in place, keeping its position.
	Set(key, value string) error
	// Delete of an absent key is a no-op.
	Delete(key string) error
	Keys() ([]string, error)
}

// entries is the ordered map shared by Memory and File.
type entries struct {
	keys   []string
	values map[string]string
}

func newEntries() entries {
	return entries{values: make(map[string]string)}
}

func (e *entries) get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

func (e *entries) set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

func (e *entries) delete(key string) bool {
	if _, ok := e.values[key]; !ok {
		return false
	}
	delete(e.values, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
	return true
}

func (e *entries) list() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Memory is a process-local medium, used for tests and the "memory" backend.
type Memory struct {
	mu sync.Mutex
	e  entries
}

func NewMemory() *Memory {
	return &Memory{e: newEntries()}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.e.get(key)
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.e.set(key, value)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.e.delete(key)
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.e.list(), nil
}
