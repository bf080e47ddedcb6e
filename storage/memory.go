package storage

import (
	"context"
	"sync"

	"memorize-server/matcherrors"
)

// MemorySlot keeps blobs in process memory and counts writes per key.
type MemorySlot struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes map[string]int
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{
		data:   make(map[string][]byte),
		writes: make(map[string]int),
	}
}

// Load returns a copy of the blob under key.
func (m *MemorySlot) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, matcherrors.ErrSlotEmpty
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under key.
func (m *MemorySlot) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	m.writes[key]++
	return nil
}

// Writes returns how many times key has been saved.
func (m *MemorySlot) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

// Close is a no-op.
func (m *MemorySlot) Close() {}
