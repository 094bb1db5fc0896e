package event

import "errors"

// Sentinel errors for lifecycle management.
var (
	// ErrStoreDisposed is returned when adding to a store that was already disposed.
	ErrStoreDisposed = errors.New("store already disposed")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")
)
