package observable

// Readable is a vertex whose value can be read, tracked or untracked.
type Readable[T any] interface {
	// Read returns the current value and records a dependency through r.
	Read(r *Reader) T

	// Get returns the current value without recording a dependency.
	Get() T
}

// Value is a mutable observable cell.
type Value[T any] struct {
	g         *Graph
	name      string
	value     T
	version   uint64
	equals    func(a, b T) bool
	observers observerSet
}

// NewValue creates a cell holding initial.
func NewValue[T any](g *Graph, initial T, opts ...Option) *Value[T] {
	o := buildOptions(opts)
	return &Value[T]{
		g:       g,
		name:    g.newName("value", o),
		value:   initial,
		version: 1,
		equals:  typedEquals[T](o),
	}
}

// Read returns the value and records the dependency.
func (v *Value[T]) Read(r *Reader) T {
	r.use(v)
	return v.value
}

// Get returns the value without tracking.
func (v *Value[T]) Get() T {
	return v.value
}

// Set replaces the value. Equal values, per the configured comparer, are
// dropped without notifying anyone. If a computation is in progress the
// update is queued and applied once the current pass completes.
func (v *Value[T]) Set(value T) {
	v.g.update(func() { v.apply(value) })
}

// Name returns the debug name.
func (v *Value[T]) Name() string {
	return v.name
}

func (v *Value[T]) apply(value T) {
	if v.equals(v.value, value) {
		return
	}
	v.value = value
	v.version++
	v.g.trace("observable: %s changed (v%d)", v.name, v.version)
	v.observers.invalidateAll()
}

func (v *Value[T]) refresh() uint64 {
	return v.version
}

func (v *Value[T]) addObserver(o observer) {
	v.observers.add(o)
}

func (v *Value[T]) removeObserver(o observer) {
	v.observers.remove(o)
}

// Constant is a Readable that never changes.
type Constant[T any] struct {
	value T
}

// NewConstant wraps value.
func NewConstant[T any](value T) Constant[T] {
	return Constant[T]{value: value}
}

// Read returns the value. Constants record no dependency.
func (c Constant[T]) Read(r *Reader) T {
	if r == nil {
		panic(ErrNoReader)
	}
	return c.value
}

// Get returns the value.
func (c Constant[T]) Get() T {
	return c.value
}
