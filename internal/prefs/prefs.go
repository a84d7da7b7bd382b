// Package prefs provides the device-local key-value store backing the status
// cache. It is injected rather than global, and strictly local: nothing here
// touches the network or the session log.
package prefs

import "sync"

// Store is a synchronous scalar key-value store scoped to one device
// instance. Missing keys return the zero value and ok=false; writes are
// last-write-wins and fully visible to the next read.
type Store interface {
	GetString(key string) (string, bool)
	SetString(key, value string) error
	GetInt64(key string) (int64, bool)
	SetInt64(key string, value int64) error
	GetBool(key string) (bool, bool)
	SetBool(key string, value bool) error
}

// Memory is an in-process Store, used in tests and as the default when no
// database-backed store is wired.
type Memory struct {
	mu      sync.Mutex
	strings map[string]string
	ints    map[string]int64
	bools   map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		strings: make(map[string]string),
		ints:    make(map[string]int64),
		bools:   make(map[string]bool),
	}
}

func (m *Memory) GetString(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.strings[key]
	return v, ok
}

func (m *Memory) SetString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strings[key] = value
	return nil
}

func (m *Memory) GetInt64(key string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.ints[key]
	return v, ok
}

func (m *Memory) SetInt64(key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints[key] = value
	return nil
}

func (m *Memory) GetBool(key string) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.bools[key]
	return v, ok
}

func (m *Memory) SetBool(key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bools[key] = value
	return nil
}
