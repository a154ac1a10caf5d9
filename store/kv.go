package store

import "sync"

// KV is the persistence medium the store runs on. It supports atomic
// single-key reads and writes only; there are no multi-key transactions.
type KV interface {
	// Get returns the value for key, reporting whether it exists.
	Get(key string) (string, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the value for key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Close releases any resources held by the medium.
	Close() error
}

// MemoryKV is an in-memory KV used in tests and as a fallback when no
// durable medium is available.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory KV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
