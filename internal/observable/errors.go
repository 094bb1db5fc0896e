package observable

import "errors"

// Sentinel errors. The graph reports contract violations by panicking with
// one of these values; they are programming errors, not runtime conditions.
var (
	// ErrNoReader is raised when Read is called with a nil reader.
	ErrNoReader = errors.New("observable: read outside of a tracking context")

	// ErrStaleReader is raised when a reader is used after its computation returned.
	ErrStaleReader = errors.New("observable: reader used after its computation finished")

	// ErrCycle is raised when a derived depends on itself.
	ErrCycle = errors.New("observable: dependency cycle detected")

	// ErrUpdateLoop is raised when autoruns keep scheduling updates for each other.
	ErrUpdateLoop = errors.New("observable: update loop did not settle")

	// ErrDisposed is raised when a disposed derived is read.
	ErrDisposed = errors.New("observable: vertex has been disposed")
)
