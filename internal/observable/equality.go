package observable

import "reflect"

// Option configures a Value, Derived or event-backed observable.
type Option func(*options)

type options struct {
	equals func(a, b any) bool
	name   string
}

func buildOptions(opts []Option) options {
	o := options{equals: referenceEquals}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithEquality sets the comparer used to filter no-op updates.
func WithEquality[T any](eq func(a, b T) bool) Option {
	return func(o *options) {
		o.equals = func(a, b any) bool {
			ta, _ := a.(T)
			tb, _ := b.(T)
			return eq(ta, tb)
		}
	}
}

// StructuralEquality compares values with reflect.DeepEqual.
func StructuralEquality() Option {
	return func(o *options) {
		o.equals = reflect.DeepEqual
	}
}

// AlwaysNotify treats every update as a change. Use it for containers whose
// contents change without the reference changing.
func AlwaysNotify() Option {
	return func(o *options) {
		o.equals = neverEqual
	}
}

// WithName sets a debug name used in log output.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// referenceEquals is the default comparer: == when the dynamic type supports
// it, otherwise always different.
func referenceEquals(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

func neverEqual(a, b any) bool {
	return false
}

func typedEquals[T any](o options) func(a, b T) bool {
	eq := o.equals
	return func(a, b T) bool {
		return eq(a, b)
	}
}
