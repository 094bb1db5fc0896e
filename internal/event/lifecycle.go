package event

// Disposable releases resources held by a subscription, effect or component.
// Dispose must be safe to call more than once.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to the Disposable interface.
// The function runs at most once.
type DisposableFunc func()

// Dispose calls the function.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

// OnceFunc returns a Disposable that calls fn the first time it is disposed.
func OnceFunc(fn func()) Disposable {
	return &onceDisposable{fn: fn}
}

type onceDisposable struct {
	fn func()
}

func (d *onceDisposable) Dispose() {
	if fn := d.fn; fn != nil {
		d.fn = nil
		fn()
	}
}

// None is a Disposable that does nothing.
var None Disposable = DisposableFunc(nil)

// Store owns a set of disposables and releases them together.
// The zero value is ready to use.
type Store struct {
	items    []Disposable
	disposed bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add registers d with the store and returns it.
// If the store was already disposed, d is disposed immediately and
// ErrStoreDisposed is returned.
func (s *Store) Add(d Disposable) (Disposable, error) {
	if d == nil {
		return nil, nil
	}
	if s.disposed {
		d.Dispose()
		return d, ErrStoreDisposed
	}
	s.items = append(s.items, d)
	return d, nil
}

// AddFunc registers fn as a disposable.
func (s *Store) AddFunc(fn func()) {
	_, _ = s.Add(OnceFunc(fn))
}

// Len returns the number of disposables held.
func (s *Store) Len() int {
	return len(s.items)
}

// IsDisposed returns true once Dispose has been called.
func (s *Store) IsDisposed() bool {
	return s.disposed
}

// Clear disposes everything held without disposing the store itself.
// Items are released in reverse registration order.
func (s *Store) Clear() {
	items := s.items
	s.items = nil
	for i := len(items) - 1; i >= 0; i-- {
		items[i].Dispose()
	}
}

// Dispose releases all held disposables. Further additions are disposed
// immediately.
func (s *Store) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.Clear()
}
