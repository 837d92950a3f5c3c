package object

import (
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/resolve"
)

func newState(t *testing.T) *engine.State {
	t.Helper()
	s := engine.New()
	t.Cleanup(s.Close)
	return s
}

// scriptValue runs source that returns one value and pins it, leaving the
// stack empty again.
func scriptValue(t *testing.T, s *engine.State, source string) Object {
	t.Helper()
	if err := s.RunString(source); err != nil {
		t.Fatal(err)
	}
	return FromTop(s)
}

func TestFromTop_PopsExactlyOne(t *testing.T) {
	s := newState(t)

	if err := s.RunString(`return {tag = "hello"}`); err != nil {
		t.Fatal(err)
	}
	before := s.Top()
	o := FromTop(s)
	if s.Top() != before-1 {
		t.Errorf("stack height %d, want %d", s.Top(), before-1)
	}
	if !o.IsLoaded() {
		t.Error("handle should be loaded")
	}
}

func TestFromStack_LeavesStackAlone(t *testing.T) {
	s := newState(t)

	s.Push(lua.LString("kept"))
	defer s.Pop(1)

	before := s.Top()
	o := FromStack(s, -1)
	if s.Top() != before {
		t.Errorf("stack height changed: %d -> %d", before, s.Top())
	}
	if got := As[string](o); got != "kept" {
		t.Errorf("As = %q, want %q", got, "kept")
	}
}

func TestClone_MintsIndependentPin(t *testing.T) {
	s := newState(t)

	orig := scriptValue(t, s, `return {n = 1}`)
	dup := orig.Clone()

	if dup.Key() == orig.Key() {
		t.Error("clone should hold its own pin")
	}
	if dup.Equal(orig) {
		t.Error("equality is pin identity; a clone is a distinct handle")
	}
	if !dup.Same(orig) {
		t.Error("clone should designate the same value")
	}

	orig.Release()
	if dup.Value() == lua.LNil {
		t.Error("releasing the original must not affect the clone")
	}
}

func TestTake_MoveUnloadsSource(t *testing.T) {
	s := newState(t)

	src := scriptValue(t, s, `return "payload"`)
	key := src.Key()

	dst := src.Take()
	if src.IsLoaded() {
		t.Error("source should be unloaded after move")
	}
	if !dst.IsLoaded() || dst.Key() != key {
		t.Errorf("destination should own pin %d, got %d", key, dst.Key())
	}
	if got := As[string](dst); got != "payload" {
		t.Errorf("As = %q, want %q", got, "payload")
	}
}

func TestUnloadedHandle_SafeDefaults(t *testing.T) {
	s := newState(t)

	var o Object
	before := s.Top()

	if got := As[int](o); got != 0 {
		t.Errorf("As on unloaded = %d, want 0", got)
	}
	if Is[string](o) {
		t.Error("Is on unloaded should be false")
	}
	if err := Call0(o); err == nil {
		t.Error("Call on unloaded should error")
	}
	if _, err := Call1[int](o); err == nil {
		t.Error("Call1 on unloaded should error")
	}
	if s.Top() != before {
		t.Errorf("unloaded operations touched the stack: %d -> %d", before, s.Top())
	}
}

func TestRelease_Idempotent(t *testing.T) {
	s := newState(t)

	o := scriptValue(t, s, `return 1`)
	o.Release()
	o.Release()
	if o.IsLoaded() {
		t.Error("handle should stay unloaded")
	}
}

func TestEqual(t *testing.T) {
	s := newState(t)

	if err := s.RunString(`shared = {}`); err != nil {
		t.Fatal(err)
	}
	a := FromValue(s, s.Globals().RawGetString("shared"))
	b := FromValue(s, s.Globals().RawGetString("shared"))
	c := scriptValue(t, s, `return {}`)

	if !a.Equal(a) {
		t.Error("a handle should equal itself")
	}
	if a.Equal(b) {
		t.Error("independent pins are distinct handles, even on one table")
	}
	if !a.Same(b) {
		t.Error("independent pins on one table designate the same value")
	}
	if a.Same(c) {
		t.Error("distinct tables should not be the same value")
	}

	var u1, u2 Object
	if !u1.Equal(u2) {
		t.Error("two unloaded handles should be equal")
	}
	if a.Equal(u1) {
		t.Error("loaded and unloaded handles should differ")
	}

	moved := a.Take()
	if moved.Equal(a) {
		t.Error("moved-from source is unloaded and no longer equal")
	}
}

func TestAsAndIs(t *testing.T) {
	s := newState(t)

	o := scriptValue(t, s, `return {2, 4, 6}`)

	if !Is[[]int](o) {
		t.Error("value should check as []int")
	}
	if Is[string](o) {
		t.Error("table should not check as string")
	}
	got := As[[]int](o)
	if len(got) != 3 || got[2] != 6 {
		t.Errorf("As = %v, want [2 4 6]", got)
	}

	// Mismatch reports and yields the zero value.
	if got := As[int](o); got != 0 {
		t.Errorf("mismatched As = %d, want 0", got)
	}
}

func TestCall(t *testing.T) {
	s := newState(t)

	fn := scriptValue(t, s, `return function(a, b) return a + b, a * b end`)

	sum, prod, err := Call2[int, int](fn, 3, 4)
	if err != nil {
		t.Fatalf("Call2: %v", err)
	}
	if sum != 7 || prod != 12 {
		t.Errorf("got (%d, %d), want (7, 12)", sum, prod)
	}

	before := s.Top()
	if _, err := Call1[int](fn, 1, 2); err != nil {
		t.Fatalf("Call1: %v", err)
	}
	if s.Top() != before {
		t.Errorf("call unbalanced the stack: %d -> %d", before, s.Top())
	}

	boom := scriptValue(t, s, `return function() error("sabotage") end`)
	if err := Call0(boom); err == nil {
		t.Error("script error should propagate")
	}
}

func TestIndex_PathFromHandle(t *testing.T) {
	s := newState(t)

	o := scriptValue(t, s, `return {net = {host = "localhost", port = 4321}}`)

	if got := resolve.Get[string](o.Index("net", "host")); got != "localhost" {
		t.Errorf("host = %q, want localhost", got)
	}
	if err := o.Index("net", "port").Set(9999); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := resolve.Get[int](o.Index("net", "port")); got != 9999 {
		t.Errorf("port = %d, want 9999", got)
	}
	if err := o.Index("fresh", "leaf").Set(true); err != nil {
		t.Fatalf("Set with vivification: %v", err)
	}
	if got := resolve.Get[bool](o.Index("fresh", "leaf")); !got {
		t.Error("vivified path should hold true")
	}
}
