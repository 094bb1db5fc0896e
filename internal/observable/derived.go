package observable

import "github.com/dshills/inlineview/internal/event"

type derivedState uint8

const (
	// stateInitial: no cached value, or the derived is not observed.
	stateInitial derivedState = iota
	// stateMaybeStale: a dependency may have changed; versions must be checked.
	stateMaybeStale
	// stateUpToDate: the cached value is current.
	stateUpToDate
)

// Derived is a cached computation over other vertices.
//
// While at least one derived or autorun depends on it, a Derived caches its
// value and subscribes to its own dependencies. When nothing observes it, it
// drops its subscriptions and recomputes on every Get.
type Derived[T any] struct {
	g       *Graph
	name    string
	compute func(r *Reader, prev T, hasPrev bool) T
	equals  func(a, b T) bool

	value    T
	hasValue bool
	version  uint64
	state    derivedState

	deps      []dependency
	observers observerSet

	computing bool
	disposed  bool
}

// NewDerived creates a derived vertex computed by fn.
func NewDerived[T any](g *Graph, fn func(r *Reader) T, opts ...Option) *Derived[T] {
	return newDerived(g, "derived", func(r *Reader, _ T, _ bool) T { return fn(r) }, opts)
}

// NewDerivedWithCache creates a derived vertex whose compute function also
// receives its previous value. hasPrev is false on the first computation and
// after the derived stopped being observed.
func NewDerivedWithCache[T any](g *Graph, fn func(r *Reader, prev T, hasPrev bool) T, opts ...Option) *Derived[T] {
	return newDerived(g, "derivedWithCache", fn, opts)
}

// Map derives a value from a single source.
func Map[A, B any](g *Graph, src Readable[A], fn func(A) B, opts ...Option) *Derived[B] {
	return NewDerived(g, func(r *Reader) B { return fn(src.Read(r)) }, opts...)
}

func newDerived[T any](g *Graph, kind string, fn func(r *Reader, prev T, hasPrev bool) T, opts []Option) *Derived[T] {
	o := buildOptions(opts)
	return &Derived[T]{
		g:       g,
		name:    g.newName(kind, o),
		compute: fn,
		equals:  typedEquals[T](o),
	}
}

// Read returns the value and records the dependency.
func (d *Derived[T]) Read(r *Reader) T {
	r.use(d)
	return d.value
}

// Get returns the value without tracking. An unobserved derived is
// recomputed on every call.
func (d *Derived[T]) Get() T {
	d.refresh()
	return d.value
}

// Name returns the debug name.
func (d *Derived[T]) Name() string {
	return d.name
}

// Dispose releases every subscription the derived holds. Reading a disposed
// derived panics with ErrDisposed.
func (d *Derived[T]) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	d.release()
}

// AsDisposable adapts Dispose to event.Disposable.
func (d *Derived[T]) AsDisposable() event.Disposable {
	return event.DisposableFunc(d.Dispose)
}

func (d *Derived[T]) observed() bool {
	return d.observers.len() > 0
}

func (d *Derived[T]) refresh() uint64 {
	if d.disposed {
		panic(ErrDisposed)
	}
	if d.computing {
		panic(ErrCycle)
	}
	if !d.observed() {
		d.recompute(nil)
		d.state = stateInitial
		return d.version
	}

	switch d.state {
	case stateUpToDate:
		return d.version
	case stateMaybeStale:
		if !changed(d.deps) {
			d.state = stateUpToDate
			return d.version
		}
	}
	d.recompute(d)
	return d.version
}

// recompute runs the compute function. owner is nil for an unobserved
// derived so that nothing gets subscribed.
func (d *Derived[T]) recompute(owner observer) {
	r := d.g.beginTracking(owner)
	d.computing = true
	completed := false
	defer func() {
		d.computing = false
		if owner != nil {
			reconcile(d, d.deps, r)
			d.deps = r.deps
		}
		if !completed {
			d.state = stateInitial
		}
		d.g.endTracking(r)
	}()

	value := d.compute(r, d.value, d.hasValue)
	completed = true

	if !d.hasValue || !d.equals(d.value, value) {
		d.value = value
		d.hasValue = true
		d.version++
		d.g.trace("observable: %s recomputed (v%d)", d.name, d.version)
	}
	d.state = stateUpToDate
}

func (d *Derived[T]) invalidate() {
	switch d.state {
	case stateMaybeStale:
		return
	case stateUpToDate:
		d.state = stateMaybeStale
	}
	// A derived whose last computation failed stays in stateInitial and
	// keeps forwarding, so its observers get a chance to retry.
	d.observers.invalidateAll()
}

func (d *Derived[T]) addObserver(o observer) {
	d.observers.add(o)
}

func (d *Derived[T]) removeObserver(o observer) {
	if d.observers.remove(o) && !d.observed() {
		d.release()
	}
}

// release unsubscribes from every dependency and drops the cache.
func (d *Derived[T]) release() {
	deps := d.deps
	d.deps = nil
	for _, dep := range deps {
		dep.src.removeObserver(d)
	}
	var zero T
	d.value = zero
	d.hasValue = false
	d.state = stateInitial
}
