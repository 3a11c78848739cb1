package socow

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestBufferRefcount(t *testing.T) {
	b := newBuffer[int](4)
	if b.refs != 1 {
		t.Errorf("expected fresh buffer to have refcount 1, is %d", b.refs)
	}
	b.acquire()
	if b.refs != 2 {
		t.Errorf("expected refcount 2 after acquire, is %d", b.refs)
	}
	b.data[0], b.data[1] = 7, 8
	b.release(2)
	if b.refs != 1 {
		t.Errorf("expected refcount 1 after release, is %d", b.refs)
	}
	if b.data[0] != 7 {
		t.Error("release with remaining owners must not touch the elements")
	}
	b.release(2)
	if b.refs != 0 {
		t.Errorf("expected refcount 0 after final release, is %d", b.refs)
	}
	if b.data[0] != 0 || b.data[1] != 0 {
		t.Error("expected final release to zero the constructed slots")
	}
}

func TestExclusivePredicate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "socow")
	defer teardown()
	//
	vec := From(1, 2, 3)
	if !vec.exclusive() {
		t.Error("inline vectors are exclusive by construction")
	}
	heap := New(SmallSize[int](1))
	if err := heap.PushBack(1); err != nil {
		t.Fatal(err)
	}
	if err := heap.PushBack(2); err != nil {
		t.Fatal(err)
	}
	if !heap.exclusive() {
		t.Error("a heap-backed vector with refcount 1 is exclusive")
	}
	clone, err := heap.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if heap.exclusive() || clone.exclusive() {
		t.Error("vectors sharing a buffer must not report exclusivity")
	}
}

func TestUnshare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "socow")
	defer teardown()
	//
	vec := New(SmallSize[int](1))
	for i := 0; i < 4; i++ {
		if err := vec.PushBack(i); err != nil {
			t.Fatal(err)
		}
	}
	before := vec.dyn
	if err := vec.unshare(); err != nil { // exclusive ⇒ no-op
		t.Fatal(err)
	}
	if vec.dyn != before {
		t.Error("expected unshare of an exclusive vector to be a no-op, wasn't")
	}
	clone, err := vec.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if err := vec.unshare(); err != nil {
		t.Fatal(err)
	}
	if vec.dyn == clone.dyn {
		t.Error("expected unshare to move to a private buffer, didn't")
	}
	if vec.dyn.capacity() != clone.dyn.capacity() {
		t.Errorf("expected unshare to keep capacity %d, is %d", clone.dyn.capacity(), vec.dyn.capacity())
	}
	if vec.dyn.refs != 1 || clone.dyn.refs != 1 {
		t.Errorf("expected both buffers to be exclusive after unshare, refs are %d and %d",
			vec.dyn.refs, clone.dyn.refs)
	}
}

func TestModeTransitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "socow")
	defer teardown()
	//
	vec := New(SmallSize[int](2))
	if vec.mode != modeSmall {
		t.Fatalf("expected new vector to start inline, mode is %s", vec.mode)
	}
	for i := 0; i < 3; i++ {
		if err := vec.PushBack(i); err != nil {
			t.Fatal(err)
		}
	}
	if vec.mode != modeShared {
		t.Fatalf("expected growth past the threshold to go heap-backed, mode is %s", vec.mode)
	}
	if err := vec.PopBack(); err != nil {
		t.Fatal(err)
	}
	if err := vec.ShrinkToFit(); err != nil {
		t.Fatal(err)
	}
	if vec.mode != modeSmall {
		t.Fatalf("expected shrink below the threshold to collapse inline, mode is %s", vec.mode)
	}
}

func TestSlotsAllocatesInlineLazily(t *testing.T) {
	var vec Vector[int]
	vec.props = vec.props.init()
	if vec.small != nil {
		t.Fatal("zero-value vector must not hold an inline buffer yet")
	}
	buf := vec.slots()
	if len(buf) != defaultSmallSize {
		t.Errorf("expected inline buffer of %d slots, is %d", defaultSmallSize, len(buf))
	}
}

// --- Debug output ----------------------------------------------------------

func TestSketch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "socow")
	defer teardown()
	//
	vec := From(1, 2, 3)
	sketch := vec.Sketch()
	t.Logf("\n%s", sketch)
	if !strings.Contains(sketch, "inline buffer") {
		t.Errorf("expected sketch of an inline vector to say so, is:\n%s", sketch)
	}
	heap := New(SmallSize[int](1))
	if err := heap.PushBack(7); err != nil {
		t.Fatal(err)
	}
	if err := heap.PushBack(8); err != nil {
		t.Fatal(err)
	}
	sketch = heap.Sketch()
	t.Logf("\n%s", sketch)
	if !strings.Contains(sketch, "shared buffer") || !strings.Contains(sketch, "refs=1") {
		t.Errorf("expected sketch of a heap-backed vector to show the buffer, is:\n%s", sketch)
	}
}

func TestPrintout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "socow")
	defer teardown()
	//
	vec := From(1, 2, 3)
	out := strings.Builder{}
	vec.Printout(&out)
	if !strings.Contains(out.String(), "[1,2,3]") {
		t.Errorf("expected printout to contain the elements, is %q", out.String())
	}
}

func TestDot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "socow")
	defer teardown()
	//
	a := New(SmallSize[int](1))
	if err := a.PushBack(1); err != nil {
		t.Fatal(err)
	}
	if err := a.PushBack(2); err != nil {
		t.Fatal(err)
	}
	b, err := a.Clone()
	if err != nil {
		t.Fatal(err)
	}
	c := From(7)
	out := strings.Builder{}
	Dot(&out, &a, &b, &c)
	dot := out.String()
	t.Logf("\n%s", dot)
	if strings.Count(dot, "refs=2") != 1 {
		t.Errorf("expected exactly one shared buffer node, is:\n%s", dot)
	}
	if !strings.Contains(dot, "\"v0\" -> \"b0\"") || !strings.Contains(dot, "\"v1\" -> \"b0\"") {
		t.Errorf("expected both clones to point at the shared buffer, is:\n%s", dot)
	}
}
