package socow

import "fmt"

// defaultSmallSize is the inline capacity used when no SmallSize option is given.
const defaultSmallSize = 8

// storageMode discriminates the two storage representations of a vector.
// Exactly one of Vector.small and Vector.dyn is active at any time; the mode
// tag decides which.
type storageMode uint8

const (
	modeSmall  storageMode = iota // elements live in a private inline buffer
	modeShared                    // elements live in a refcounted heap buffer
)

func (m storageMode) String() string {
	if m == modeSmall {
		return "small"
	}
	return "shared"
}

// props holds per-vector configuration, set once at creation time.
type props[T any] struct {
	smallSize int
	copier    func(T) (T, error)
}

// init returns props with defaults filled in. Call it at the top of every
// operation so that the zero-value Vector is usable.
func (p props[T]) init() props[T] {
	if p.smallSize == 0 {
		p.smallSize = defaultSmallSize
	}
	if p.copier == nil {
		p.copier = func(item T) (T, error) { return item, nil }
	}
	return p
}

// --- Shared heap buffer ----------------------------------------------------

// buffer is a heap-allocated element block shared by any number of vectors.
// cap(data) is the buffer capacity; the number of slots in use is tracked by
// the owning vectors, not by the buffer. While refs > 1 the buffer is
// logically read-only; a sole owner (refs == 1) may mutate it in place.
type buffer[T any] struct {
	refs int
	data []T
}

func newBuffer[T any](capacity int) *buffer[T] {
	assertThat(capacity > 0, "attempt to allocate a shared buffer of capacity 0")
	return &buffer[T]{refs: 1, data: make([]T, capacity)}
}

func (b *buffer[T]) capacity() int {
	return cap(b.data)
}

// acquire registers one more owner.
func (b *buffer[T]) acquire() {
	b.refs++
}

// release drops one owner. When the last owner leaves, the first count slots
// are zeroed so that element references become collectable. count is supplied
// by the releasing owner: during storage transitions only the owner knows the
// authoritative element count.
func (b *buffer[T]) release(count int) {
	assertThat(b.refs > 0, "release of a shared buffer with refcount 0")
	assertThat(count >= 0 && count <= b.capacity(), "release count %d out of range for capacity %d", count, b.capacity())
	b.refs--
	if b.refs == 0 {
		clear(b.data[:count])
	}
}

// --- Storage transitions ---------------------------------------------------

// exclusive reports whether the vector is the sole owner of its storage.
// Inline buffers are private by construction; a heap buffer is exclusive iff
// no other vector holds a reference. Every in-place fast path is gated on
// this predicate.
func (v *Vector[T]) exclusive() bool {
	return v.mode == modeSmall || v.dyn.refs == 1
}

// slots returns the full active slot array for in-place mutation. The caller
// must hold exclusive ownership. Allocates the inline buffer on first use.
func (v *Vector[T]) slots() []T {
	if v.mode == modeShared {
		return v.dyn.data
	}
	if v.small == nil {
		v.small = make([]T, v.smallSize)
	}
	return v.small
}

// view returns the constructed elements, read-only by convention. Never
// allocates and never unshares.
func (v *Vector[T]) view() []T {
	if v.mode == modeShared {
		return v.dyn.data[:v.length]
	}
	if v.small == nil {
		return nil
	}
	return v.small[:v.length]
}

// sameStorage reports whether two vectors alias the same element storage.
// Inline buffers are never aliased, so apart from object identity this can
// only be true for two vectors sharing one heap buffer.
func (v *Vector[T]) sameStorage(other *Vector[T]) bool {
	if v == other {
		return true
	}
	return v.mode == modeShared && other.mode == modeShared && v.dyn == other.dyn
}

// copyElements copies src into dst slot by slot through the vector's copier.
// On failure the partially filled dst is simply abandoned by the caller; no
// adopted state exists yet, so the strong guarantee holds trivially.
func (v *Vector[T]) copyElements(dst, src []T) error {
	assertThat(len(dst) >= len(src), "destination of element copy too short: %d < %d", len(dst), len(src))
	for i, item := range src {
		copied, err := v.copier(item)
		if err != nil {
			tracer().Debugf("element copy failed at slot %d: %s", i, err.Error())
			return err
		}
		dst[i] = copied
	}
	return nil
}

// releaseStorage detaches the vector from its current storage without
// touching length or mode. Heap buffers lose one reference; a live inline
// buffer is zeroed for collectability.
func (v *Vector[T]) releaseStorage() {
	if v.mode == modeShared {
		v.dyn.release(v.length)
		v.dyn = nil
		return
	}
	if v.small != nil {
		clear(v.small[:v.length])
	}
}

// reallocate rebuilds the vector's storage: it copies the first count
// elements into a fresh private buffer of the given capacity and adopts it.
// Capacities at or below the small-size threshold collapse to the inline
// representation. The replacement is fully constructed before the old
// storage is released, so a failed element copy leaves the vector untouched.
func (v *Vector[T]) reallocate(count, capacity int) error {
	assertThat(count <= v.length, "reallocation count %d exceeds length %d", count, v.length)
	assertThat(count <= capacity, "reallocation capacity %d below element count %d", capacity, count)
	src := v.view()[:count]
	if capacity <= v.smallSize {
		fresh := make([]T, v.smallSize)
		if err := v.copyElements(fresh, src); err != nil {
			return err
		}
		v.releaseStorage()
		v.mode = modeSmall
		v.small = fresh
		v.dyn = nil
		v.length = count
		tracer().Debugf("vector collapsed to inline storage, len=%d", count)
		return nil
	}
	fresh := newBuffer[T](capacity)
	if err := v.copyElements(fresh.data, src); err != nil {
		return err
	}
	v.releaseStorage()
	v.mode = modeShared
	v.small = nil
	v.dyn = fresh
	v.length = count
	tracer().Debugf("vector reallocated, len=%d cap=%d", count, capacity)
	return nil
}

// unshare regains exclusive ownership before a mutation. A sole owner is left
// alone; otherwise the elements are copied into a private buffer at the
// current capacity and the shared reference is dropped.
func (v *Vector[T]) unshare() error {
	if v.exclusive() {
		return nil
	}
	tracer().Debugf("unsharing vector, len=%d cap=%d refs=%d", v.length, v.capacity(), v.dyn.refs)
	return v.reallocate(v.length, v.capacity())
}

// capacity is the slot count of the active storage. The inline capacity is
// the small-size threshold even before the inline buffer is allocated.
func (v *Vector[T]) capacity() int {
	if v.mode == modeShared {
		return v.dyn.capacity()
	}
	return v.smallSize
}

// --- Helpers ---------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("socow: "+msg, msgargs...)
		panic(msg)
	}
}
