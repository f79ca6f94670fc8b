package core

import "context"

// Repository defines the contract for the key-value slots copydeck persists to.
// Each slot holds one whole value; writes replace it entirely.
type Repository interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, data []byte) error

	// Initialize ensures the underlying storage is ready (e.g. create directories).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that report external changes.
type Watchable interface {
	// Watch emits an event for every change to a slot whose key matches pattern.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
