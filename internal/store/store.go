// Package store provides durable key-value storage for the storefront
// client's persisted session state. Three implementations share one
// interface: a file-backed store (the default, surviving process restarts the
// way browser local storage survives reloads), an in-memory store for tests
// and ephemeral runs, and a Redis-backed store for shared kiosk deployments.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has no value. This is a
// sentinel error that callers can check to distinguish between an absent key
// (expected) and an actual storage error (unexpected).
var ErrKeyNotFound = errors.New("key not found")

// Store is the durable key-value storage contract. All methods are
// context-aware and must be safe for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set persists value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
