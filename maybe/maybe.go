/*
Package maybe provides an optional-value type in the tradition of Elm's
`Maybe` and Haskell's `Data.Maybe`: a value of type Maybe[T] either holds
a T (Just) or holds nothing (Nothing). It is used by the socow package for
lookups that may legally come up empty, like the first element of a
possibly empty vector.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package maybe

// Maybe optionally holds a value of type T. The zero value is Nothing.
type Maybe[T any] struct {
	value T
	ok    bool
}

// Just wraps a present value.
func Just[T any](value T) Maybe[T] {
	return Maybe[T]{value: value, ok: true}
}

// Nothing is the absent value for type T.
func Nothing[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Value unwraps m, in the comma-ok idiom: for Nothing it returns the zero
// value of T and false.
func (m Maybe[T]) Value() (T, bool) {
	return m.value, m.ok
}

// IsNothing reports whether m holds no value.
func (m Maybe[T]) IsNothing() bool {
	return !m.ok
}

// WithDefault unwraps m, substituting def for Nothing.
func (m Maybe[T]) WithDefault(def T) T {
	if m.ok {
		return m.value
	}
	return def
}

// Map applies f to a present value and passes Nothing through.
func Map[S, T any](f func(S) T, m Maybe[S]) Maybe[T] {
	if v, ok := m.Value(); ok {
		return Just(f(v))
	}
	return Nothing[T]()
}

// AndThen chains a computation that may itself come up empty.
func AndThen[S, T any](f func(S) Maybe[T], m Maybe[S]) Maybe[T] {
	if v, ok := m.Value(); ok {
		return f(v)
	}
	return Nothing[T]()
}
