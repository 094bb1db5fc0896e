package event

// Source is anything listeners can subscribe to.
type Source[E any] interface {
	// Subscribe registers handler and returns a handle that unregisters it.
	Subscribe(handler func(E)) Disposable
}

// Emitter is a synchronous, typed event source.
// Handlers run on the goroutine that calls Fire, in subscription order.
// The zero value is ready to use. Emitter is not safe for concurrent use.
type Emitter[E any] struct {
	listeners []*listener[E]
	nextID    uint64
}

type listener[E any] struct {
	id      uint64
	handler func(E)
	removed bool
}

// Subscribe registers handler. A nil handler panics with ErrNilHandler.
func (e *Emitter[E]) Subscribe(handler func(E)) Disposable {
	if handler == nil {
		panic(ErrNilHandler)
	}
	e.nextID++
	l := &listener[E]{id: e.nextID, handler: handler}
	e.listeners = append(e.listeners, l)
	return OnceFunc(func() { e.remove(l) })
}

// Fire delivers ev to every current listener.
// Listeners added during Fire are not called for this event; listeners
// removed during Fire are skipped if they have not run yet.
func (e *Emitter[E]) Fire(ev E) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := make([]*listener[E], len(e.listeners))
	copy(snapshot, e.listeners)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		l.handler(ev)
	}
}

// HasListeners returns true if at least one listener is registered.
func (e *Emitter[E]) HasListeners() bool {
	return len(e.listeners) > 0
}

// ListenerCount returns the number of registered listeners.
func (e *Emitter[E]) ListenerCount() int {
	return len(e.listeners)
}

func (e *Emitter[E]) remove(l *listener[E]) {
	l.removed = true
	for i, cur := range e.listeners {
		if cur == l {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Signal is an Emitter that carries no payload.
type Signal = Emitter[struct{}]

// Notify fires a payload-less event on s.
func Notify(s *Signal) {
	s.Fire(struct{}{})
}
