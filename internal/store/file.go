package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileStore persists keys as a single JSON document on disk. Writes go
// through a temporary file followed by a rename so a crash mid-write never
// leaves a truncated document behind. A document that fails to parse on load
// is treated as empty, not as an error; the session layer already treats
// unreadable persisted state as "no session".
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	logger *logrus.Logger
}

// NewFileStore opens (or creates) the store backed by the given file path.
// Parent directories are created as needed.
func NewFileStore(path string, logger *logrus.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	s := &FileStore{
		path:   path,
		values: make(map[string]string),
		logger: logger,
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	switch {
	case os.IsNotExist(err):
		// First run, nothing to load
	case err != nil:
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	default:
		if unmarshalErr := json.Unmarshal(data, &s.values); unmarshalErr != nil {
			logger.WithError(unmarshalErr).Warn("Storage file is corrupt, starting empty")
			s.values = make(map[string]string)
		}
	}

	return s, nil
}

// Get returns the value for key, or ErrKeyNotFound when absent.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, exists := s.values[key]
	if !exists {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set persists value under key and flushes the document to disk.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	if err := s.flushLocked(); err != nil {
		return err
	}

	s.logger.WithField("key", key).Debug("Value stored on disk")
	return nil
}

// Delete removes key and flushes the document to disk.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[key]; !exists {
		return nil
	}

	delete(s.values, key)
	if err := s.flushLocked(); err != nil {
		return err
	}

	s.logger.WithField("key", key).Debug("Value deleted from disk")
	return nil
}

// Close flushes any pending state. The store holds no open handles between
// operations, so this is a final write only.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// flushLocked writes the document atomically. Caller must hold the mutex.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage document: %w", err)
	}

	tmp := s.path + ".tmp"
	if writeErr := os.WriteFile(tmp, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write storage file: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, s.path); renameErr != nil {
		return fmt.Errorf("failed to replace storage file: %w", renameErr)
	}
	return nil
}
