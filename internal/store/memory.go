package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryStore is an in-memory implementation of the Store interface. It
// provides the same functionality as the file and Redis stores but without
// persistence; session state is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	logger *logrus.Logger
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(logger *logrus.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
		logger: logger,
	}
}

// Get returns the value for key, or ErrKeyNotFound when absent.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.values[key]
	if !exists {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set persists value under key.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	m.logger.WithField("key", key).Debug("Value stored in memory")
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	m.logger.WithField("key", key).Debug("Value deleted from memory")
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
