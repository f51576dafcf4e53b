package core

import "context"

// Storage defines the contract of the key-value backend holding the notes blob.
// Adhering to this interface keeps the engine independent of the underlying
// mechanism (memory, files, SQLite, Redis).
type Storage interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
}

// Initializer is implemented by backends that need setup (mkdir, schema).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Watchable is implemented by backends that can report changes made by
// other writers. The pattern is a doublestar glob matched against keys.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
