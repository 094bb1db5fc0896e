package observable

import "github.com/dshills/inlineview/internal/event"

// EventObservable mirrors state owned by an imperative component. It reads
// the state through get and re-reads it every time the bridged event fires.
// The event is only subscribed while something observes the vertex.
type EventObservable[T any] struct {
	g         *Graph
	name      string
	subscribe func(handler func()) event.Disposable
	get       func() T
	equals    func(a, b T) bool

	value     T
	hasValue  bool
	version   uint64
	sub       event.Disposable
	observers observerSet
}

// FromEvent bridges src into the graph. get returns the current value; it
// is called once when the vertex becomes observed and again on every event.
func FromEvent[E, T any](g *Graph, src event.Source[E], get func() T, opts ...Option) *EventObservable[T] {
	o := buildOptions(opts)
	return &EventObservable[T]{
		g:    g,
		name: g.newName("fromEvent", o),
		subscribe: func(handler func()) event.Disposable {
			return src.Subscribe(func(E) { handler() })
		},
		get:    get,
		equals: typedEquals[T](o),
	}
}

// Read returns the value and records the dependency.
func (e *EventObservable[T]) Read(r *Reader) T {
	r.use(e)
	return e.value
}

// Get returns the current value without tracking.
func (e *EventObservable[T]) Get() T {
	if e.sub == nil {
		return e.get()
	}
	return e.value
}

// Observed reports whether the underlying event is currently subscribed.
func (e *EventObservable[T]) Observed() bool {
	return e.sub != nil
}

func (e *EventObservable[T]) refresh() uint64 {
	if e.sub == nil {
		e.store(e.get())
	}
	return e.version
}

func (e *EventObservable[T]) store(value T) bool {
	if e.hasValue && e.equals(e.value, value) {
		return false
	}
	e.value = value
	e.hasValue = true
	e.version++
	return true
}

func (e *EventObservable[T]) handleEvent() {
	e.g.update(func() {
		if e.sub == nil {
			return
		}
		if e.store(e.get()) {
			e.g.trace("observable: %s changed by event (v%d)", e.name, e.version)
			e.observers.invalidateAll()
		}
	})
}

func (e *EventObservable[T]) addObserver(o observer) {
	if e.observers.add(o) && e.sub == nil {
		e.store(e.get())
		e.sub = e.subscribe(e.handleEvent)
	}
}

func (e *EventObservable[T]) removeObserver(o observer) {
	if e.observers.remove(o) && e.observers.len() == 0 && e.sub != nil {
		e.sub.Dispose()
		e.sub = nil
		var zero T
		e.value = zero
		e.hasValue = false
	}
}
