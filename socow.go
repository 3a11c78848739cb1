package socow

import (
	"fmt"
	"iter"
	"strings"

	"github.com/orcaht5/socow-vector/maybe"
)

// Vector is a random-access sequence of elements of type T with value
// semantics and two storage strategies: sequences up to a fixed small-size
// threshold live in a private inline buffer, larger sequences in a heap
// buffer that clones share copy-on-write style until one of them mutates.
//
// The zero value is an empty vector with the default threshold. Logical
// copies are made with Clone or Assign; copying a Vector by plain Go
// assignment aliases its storage without refcounting and is not supported.
//
// Performance characteristics differ from a plain slice:
//
//	Operation            |  exclusive owner  |  shared buffer
//	---------------------+-------------------+----------------
//	At, Len, Cap, All    |  O(1) read        |  O(1) read
//	Set, Ref, Data       |  O(1)             |  O(n) unshare
//	PushBack (spare cap) |  O(1)             |  O(n) rebuild
//	PopBack              |  O(1)             |  O(n) rebuild
//	Insert, Erase        |  O(n)             |  O(n) rebuild
//
// Note the asymmetry of PopBack: a sole owner destroys the last element in
// place, but a vector sharing its buffer must first copy all remaining
// elements into a private buffer.
type Vector[T any] struct {
	props[T]
	length int
	mode   storageMode
	small  []T        // active iff mode == modeSmall; never aliased
	dyn    *buffer[T] // active iff mode == modeShared
}

// New creates an empty vector, configured by options. Use it like this:
//
//	vec := socow.New(socow.SmallSize[int](4))
func New[T any](opts ...Option[T]) Vector[T] {
	v := Vector[T]{}
	for _, option := range opts {
		v.props = option.config(v.props)
	}
	v.props = v.props.init()
	return v
}

// From creates a vector holding the given items, using the default
// configuration.
func From[T any](items ...T) Vector[T] {
	v := New[T]()
	for _, item := range items {
		if err := v.PushBack(item); err != nil {
			assertThat(false, "default element copy cannot fail: %v", err)
		}
	}
	return v
}

// Option is a type to help initializing vectors at creation time.
type Option[T any] struct {
	config func(props[T]) props[T]
}

// SmallSize is an option to set the inline capacity of a vector: sequences
// up to n elements are stored directly in a private buffer, without a shared
// heap allocation. Accepted values are ≥ 1; the default is 8.
//
// Use it like this:
//
//	vec := socow.New(socow.SmallSize[int](16))
func SmallSize[T any](n int) Option[T] {
	conf := func(p props[T]) props[T] {
		if n < 1 {
			n = defaultSmallSize
		}
		p.smallSize = n
		return p
	}
	return Option[T]{config: conf}
}

// CopyWith is an option to set the element copier. The copier is invoked
// whenever an element is duplicated — on insertion, unsharing and
// reallocation — and may fail; the failing operation then reports the error
// and leaves the vector unchanged. The default copier is a plain value copy
// and never fails.
//
// A copier is the place for deep-copy semantics of reference-typed elements:
//
//	vec := socow.New(socow.CopyWith(func(s []byte) ([]byte, error) {
//		return slices.Clone(s), nil
//	}))
func CopyWith[T any](copier func(T) (T, error)) Option[T] {
	conf := func(p props[T]) props[T] {
		p.copier = copier
		return p
	}
	return Option[T]{config: conf}
}

// --- API -------------------------------------------------------------------

// Len returns the number of elements in the vector.
func (v *Vector[T]) Len() int {
	return v.length
}

// Cap returns the capacity of the active storage. It never drops below the
// small-size threshold.
func (v *Vector[T]) Cap() int {
	v.props = v.props.init()
	return v.capacity()
}

// IsEmpty reports whether the vector has no elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.length == 0
}

// At returns the element at index i. It never unshares and never allocates.
// An out-of-range index panics.
func (v *Vector[T]) At(i int) T {
	assertThat(i >= 0 && i < v.length, "vector index out of bounds: %d with length %d", i, v.length)
	return v.view()[i]
}

// Set replaces the element at index i with a copy of value, unsharing first.
// An out-of-range index panics.
func (v *Vector[T]) Set(i int, value T) error {
	v.props = v.props.init()
	assertThat(i >= 0 && i < v.length, "vector index out of bounds: %d with length %d", i, v.length)
	copied, err := v.copier(value)
	if err != nil {
		return err
	}
	if err := v.unshare(); err != nil {
		return err
	}
	v.slots()[i] = copied
	return nil
}

// Ref returns a pointer to the element at index i, unsharing first since the
// caller may write through it. The pointer is invalidated by any subsequent
// mutating operation. An out-of-range index panics.
func (v *Vector[T]) Ref(i int) (*T, error) {
	v.props = v.props.init()
	assertThat(i >= 0 && i < v.length, "vector index out of bounds: %d with length %d", i, v.length)
	if err := v.unshare(); err != nil {
		return nil, err
	}
	return &v.slots()[i], nil
}

// Data returns the elements as a slice aliasing the vector's storage,
// unsharing first. Writes through the slice are writes into the vector; any
// subsequent mutating operation invalidates it. The slice's capacity is
// clipped so that append cannot reach into spare slots.
func (v *Vector[T]) Data() ([]T, error) {
	v.props = v.props.init()
	if err := v.unshare(); err != nil {
		return nil, err
	}
	return v.slots()[:v.length:v.length], nil
}

// First returns the first element, or Nothing for an empty vector.
func (v *Vector[T]) First() maybe.Maybe[T] {
	if v.length == 0 {
		return maybe.Nothing[T]()
	}
	return maybe.Just(v.view()[0])
}

// Last returns the last element, or Nothing for an empty vector.
func (v *Vector[T]) Last() maybe.Maybe[T] {
	if v.length == 0 {
		return maybe.Nothing[T]()
	}
	return maybe.Just(v.view()[v.length-1])
}

// All returns an iterator over index/element pairs in sequence order. It
// reads through the current storage without unsharing; for mutable
// iteration use Data.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range v.view() {
			if !yield(i, item) {
				return
			}
		}
	}
}

// PushBack appends a copy of value, growing the storage if necessary.
func (v *Vector[T]) PushBack(value T) error {
	return v.Insert(v.length, value)
}

// PopBack removes the last element. A sole owner destroys it in place; a
// vector sharing its buffer rebuilds a private buffer at the same capacity,
// holding all but the last element. Popping an empty vector panics.
func (v *Vector[T]) PopBack() error {
	v.props = v.props.init()
	assertThat(v.length > 0, "attempt to remove item from empty vector")
	if v.exclusive() {
		buf := v.slots()
		clear(buf[v.length-1 : v.length])
		v.length--
		return nil
	}
	return v.reallocate(v.length-1, v.capacity())
}

// Insert places a copy of value at index i, shifting later elements up by
// one. With exclusive ownership and spare capacity the element is rotated
// into place without any allocation; otherwise the elements are copied into
// a fresh buffer, doubling the capacity when the current one is full. The
// replacement buffer is adopted only after it is fully constructed, so a
// failed element copy leaves the vector unchanged. i may equal Len, which
// appends. An out-of-range index panics.
func (v *Vector[T]) Insert(i int, value T) error {
	v.props = v.props.init()
	assertThat(i >= 0 && i <= v.length, "insert position out of bounds: %d with length %d", i, v.length)
	if v.exclusive() && v.length < v.capacity() {
		copied, err := v.copier(value)
		if err != nil {
			return err
		}
		buf := v.slots()
		buf[v.length] = copied
		v.length++
		for j := v.length - 1; j > i; j-- { // rotate the new element down to i
			buf[j], buf[j-1] = buf[j-1], buf[j]
		}
		return nil
	}
	// Shared, or out of room: build a replacement buffer, then adopt it.
	capacity := v.capacity()
	if v.length == capacity {
		capacity *= 2
		tracer().Debugf("vector grows, cap %d → %d", v.capacity(), capacity)
	}
	fresh := newBuffer[T](capacity)
	src := v.view()
	if err := v.copyElements(fresh.data[:i], src[:i]); err != nil {
		return err
	}
	copied, err := v.copier(value)
	if err != nil {
		return err
	}
	fresh.data[i] = copied
	if err := v.copyElements(fresh.data[i+1:v.length+1], src[i:]); err != nil {
		return err
	}
	v.releaseStorage()
	v.mode = modeShared
	v.small = nil
	v.dyn = fresh
	v.length++
	return nil
}

// Erase removes the element at index i. An out-of-range index panics.
func (v *Vector[T]) Erase(i int) error {
	return v.EraseRange(i, i+1)
}

// EraseRange removes the elements in the half-open range [first, last),
// shifting later elements down. A sole owner compacts in place; a vector
// sharing its buffer copies the remaining elements into a private buffer at
// the current capacity. An invalid range panics.
func (v *Vector[T]) EraseRange(first, last int) error {
	v.props = v.props.init()
	assertThat(0 <= first && first <= last && last <= v.length,
		"erase range [%d,%d) out of bounds with length %d", first, last, v.length)
	interval := last - first
	if interval == 0 {
		return nil
	}
	if v.exclusive() {
		buf := v.slots()
		copy(buf[first:], buf[last:v.length])
		clear(buf[v.length-interval : v.length])
		v.length -= interval
		return nil
	}
	fresh := newBuffer[T](v.capacity())
	src := v.view()
	if err := v.copyElements(fresh.data[:first], src[:first]); err != nil {
		return err
	}
	if err := v.copyElements(fresh.data[first:v.length-interval], src[last:]); err != nil {
		return err
	}
	v.dyn.release(v.length)
	v.dyn = fresh
	v.length -= interval
	return nil
}

// Reserve ensures capacity for at least n elements. Requests below the
// current length are ignored. A shared vector that fits the inline buffer
// collapses to it; otherwise growth, or any reallocation of a shared
// buffer, copies the elements into a fresh buffer of exactly n slots.
func (v *Vector[T]) Reserve(n int) error {
	v.props = v.props.init()
	if n < v.length {
		return nil
	}
	if !v.exclusive() && n <= v.smallSize {
		return v.reallocate(v.length, v.smallSize)
	}
	if n > v.capacity() || !v.exclusive() {
		return v.reallocate(v.length, n)
	}
	return nil
}

// ShrinkToFit reduces the capacity to the length. Vectors that fit the
// inline buffer collapse to it (capacity becomes the small-size threshold);
// the rest reallocate to an exact-size heap buffer. Inline vectors and
// full buffers are left alone.
func (v *Vector[T]) ShrinkToFit() error {
	v.props = v.props.init()
	if v.mode == modeSmall || v.length == v.capacity() {
		return nil
	}
	if v.length <= v.smallSize {
		return v.reallocate(v.length, v.smallSize)
	}
	return v.reallocate(v.length, v.length)
}

// Clear removes all elements while preserving the capacity. A sole owner
// destroys the elements in place; a vector sharing its buffer drops its
// reference and adopts a fresh empty buffer of the same capacity, so that
// clearing always yields exclusive ownership. No element is copied, so
// Clear cannot fail.
func (v *Vector[T]) Clear() {
	v.props = v.props.init()
	if v.exclusive() {
		if v.length > 0 {
			clear(v.slots()[:v.length])
		}
		v.length = 0
		return
	}
	capacity := v.capacity()
	v.dyn.release(v.length)
	v.dyn = newBuffer[T](capacity)
	v.length = 0
}

// Clone returns an independent logical copy. An inline vector is copied
// element by element; a heap-backed vector shares its buffer with the clone,
// deferring the element copies until either side mutates.
func (v *Vector[T]) Clone() (Vector[T], error) {
	v.props = v.props.init()
	clone := Vector[T]{props: v.props, length: v.length, mode: v.mode}
	if v.mode == modeShared {
		v.dyn.acquire()
		clone.dyn = v.dyn
		return clone, nil
	}
	fresh := make([]T, v.smallSize)
	if err := v.copyElements(fresh, v.view()); err != nil {
		return Vector[T]{}, err
	}
	clone.small = fresh
	return clone, nil
}

// Assign replaces the vector's contents with a logical copy of other,
// like Clone but reusing this vector's storage where possible. Assigning a
// vector to itself, or between two vectors already sharing one buffer, is a
// no-op.
func (v *Vector[T]) Assign(other *Vector[T]) error {
	v.props = v.props.init()
	other.props = other.props.init()
	if v.sameStorage(other) {
		return nil
	}
	switch {
	case v.mode == modeSmall && other.mode == modeSmall && v.smallSize == other.smallSize:
		// Reuse the inline buffer: only the length delta is constructed or
		// destroyed, the overlapping prefix is overwritten afterwards.
		overlap := min(v.length, other.length)
		prefix := make([]T, overlap)
		if err := other.copyElements(prefix, other.view()[:overlap]); err != nil {
			return err
		}
		if other.length > v.length {
			buf := v.slots()
			if err := other.copyElements(buf[v.length:other.length], other.view()[v.length:]); err != nil {
				clear(buf[v.length:other.length])
				return err
			}
		} else if v.small != nil {
			clear(v.small[other.length:v.length])
		}
		copy(v.slots()[:overlap], prefix)
		v.length = other.length
		v.props = other.props
		return nil
	case other.mode == modeSmall:
		// Deep copy into a fresh inline representation, forcing this vector
		// off its old buffer.
		fresh := make([]T, other.smallSize)
		if err := other.copyElements(fresh, other.view()); err != nil {
			return err
		}
		v.releaseStorage()
		v.props = other.props
		v.mode = modeSmall
		v.small = fresh
		v.dyn = nil
		v.length = other.length
		return nil
	default:
		other.dyn.acquire()
		v.releaseStorage()
		v.props = other.props
		v.mode = modeShared
		v.small = nil
		v.dyn = other.dyn
		v.length = other.length
		return nil
	}
}

// Swap exchanges the contents of two vectors. Two heap-backed vectors swap
// buffer references in O(1). Two inline vectors with the same small-size
// threshold exchange their elements, constructing only the length delta.
// All other combinations exchange the storage representations wholesale,
// which is valid because inline buffers are private heap blocks here, not
// part of the vector object itself. Swapping a vector with itself is a
// no-op.
func (v *Vector[T]) Swap(other *Vector[T]) error {
	v.props = v.props.init()
	other.props = other.props.init()
	if v.sameStorage(other) {
		return nil
	}
	if v.mode == modeSmall && other.mode == modeSmall && v.smallSize == other.smallSize {
		if v.length > other.length {
			return other.Swap(v)
		}
		// Copy other's surplus tail into our unconstructed slots first; a
		// failure there leaves both vectors untouched.
		buf := v.slots()
		if err := other.copyElements(buf[v.length:other.length], other.view()[v.length:]); err != nil {
			clear(buf[v.length:other.length])
			return err
		}
		obuf := other.slots()
		for i := 0; i < v.length; i++ {
			buf[i], obuf[i] = obuf[i], buf[i]
		}
		clear(obuf[v.length:other.length])
		v.length, other.length = other.length, v.length
		v.props, other.props = other.props, v.props
		return nil
	}
	v.mode, other.mode = other.mode, v.mode
	v.small, other.small = other.small, v.small
	v.dyn, other.dyn = other.dyn, v.dyn
	v.length, other.length = other.length, v.length
	v.props, other.props = other.props, v.props
	return nil
}

// String returns a display form like "[1,2,3]".
func (v *Vector[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for i, item := range v.view() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%v", item)
	}
	b.WriteByte(']')
	return b.String()
}
