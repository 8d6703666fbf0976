package storage

import (
	"errors"
	"sync"
)

// Memory is an in-process Store. Useful in tests and when no durable store
// can be opened.
type Memory struct {
	mu   sync.Mutex
	data []byte
	set  bool

	// FailSave makes Save return an error, for exercising error paths.
	FailSave bool
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

var errSaveFailed = errors.New("memory store: save failed")

func (m *Memory) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave {
		return errSaveFailed
	}
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.set = false
	return nil
}

func (m *Memory) Close() error { return nil }
