// Package store provides pluggable persistence for serialized network
// models and cached metric results, keyed by a Network's BuildID. It mirrors
// the teacher's pkg/cache Cache interface (byte-blob Get/Set/Delete/Close)
// so the same shape of code works whether the backend is the local
// filesystem, Redis, or MongoDB.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is a sentinel for a missing key. The backends in this
	// package do not return it; Get reports a miss with ok=false.
	ErrNotFound = errors.New("not found")
)

// Store is the interface every backend implements.
type Store interface {
	// Get retrieves a value. ok is false on a cache miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value. ttl<=0 means "no expiration".
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying connections.
	Close() error
}

// ModelKey builds the storage key for a serialized network model.
func ModelKey(buildID string) string { return "olivia:model:" + buildID }

// MetricKey builds the storage key for one cached metric result.
func MetricKey(buildID, kind string) string { return "olivia:metric:" + buildID + ":" + kind }

// Hash computes a SHA-256 hash of data, hex-encoded.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullStore is a no-op store that never retains anything. Useful for tests
// and for running the engine with persistence disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store { return &NullStore{} }

func (*NullStore) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (*NullStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}
func (*NullStore) Delete(ctx context.Context, key string) error { return nil }
func (*NullStore) Close() error                                 { return nil }

var _ Store = (*NullStore)(nil)
