package core

import "context"

// RemoteStore is the hosted note service, queried per user.
// Adhering to this interface keeps the sync policy independent of the
// transport (PostgREST over HTTP, in-memory fake, ...).
type RemoteStore interface {
	// List returns the notes matching f, ordered by UpdatedAt descending.
	// Failures wrap ErrRemoteUnavailable.
	List(ctx context.Context, f Filter) ([]Note, error)

	// Upsert inserts or replaces a note by ID.
	// Failures wrap ErrRemoteWriteFailed.
	Upsert(ctx context.Context, n Note) error
}

// KeyValue is a string-keyed, process-durable store.
type KeyValue interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Watchable is implemented by stores that report external changes.
type Watchable interface {
	// Watch emits an event for every change to a key matching pattern.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
