package engine

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestReference_PinDoesNotConsumeSlot(t *testing.T) {
	s := New()
	defer s.Close()

	s.Push(lua.LString("pinned"))
	before := s.Top()

	ref := NewReference(s, -1)
	defer ref.Unload()

	if s.Top() != before {
		t.Errorf("Top = %d, want %d (pinning must not consume the slot)", s.Top(), before)
	}
	if !ref.IsLoaded() {
		t.Error("reference not loaded after pinning")
	}
	if ref.Type() != lua.LTString {
		t.Errorf("Type = %v, want string", ref.Type())
	}
}

func TestReference_PushAlwaysOneSlot(t *testing.T) {
	s := New()
	defer s.Close()

	s.Push(lua.LNumber(7))
	ref := NewReference(s, -1)
	s.Pop(1)

	before := s.Top()
	n := ref.Push()
	if n != 1 || s.Top() != before+1 {
		t.Fatalf("Push produced %d slots (height %d->%d), want exactly 1", n, before, s.Top())
	}
	if s.Get(-1).(lua.LNumber) != 7 {
		t.Errorf("pushed value = %v, want 7", s.Get(-1))
	}
	s.Pop(1)

	// Unloaded reference still produces one slot, as nil
	ref.Unload()
	n = ref.Push()
	if n != 1 {
		t.Errorf("unloaded Push returned %d, want 1", n)
	}
	if s.Get(-1) != lua.LNil {
		t.Errorf("unloaded Push pushed %v, want nil", s.Get(-1))
	}
	s.Pop(1)
}

func TestReference_UnloadIdempotent(t *testing.T) {
	s := New()
	defer s.Close()

	s.Push(lua.LNumber(1))
	ref := NewReference(s, -1)
	s.Pop(1)

	ref.Unload()
	ref.Unload()

	if ref.IsLoaded() {
		t.Error("reference loaded after Unload")
	}
	if ref.Key() != Unloaded {
		t.Errorf("Key = %d, want unloaded sentinel", ref.Key())
	}
	if ref.Type() != lua.LTNil {
		t.Errorf("Type of unloaded = %v, want nil", ref.Type())
	}
}

func TestReference_Take(t *testing.T) {
	s := New()
	defer s.Close()

	s.Push(lua.LString("moved"))
	src := NewReference(s, -1)
	s.Pop(1)
	key := src.Key()

	dst := src.Take()
	defer dst.Unload()

	if src.IsLoaded() {
		t.Error("source still loaded after Take")
	}
	if src.Key() != Unloaded {
		t.Errorf("source Key = %d, want unloaded sentinel", src.Key())
	}
	if dst.Key() != key {
		t.Errorf("destination Key = %d, want transferred id %d", dst.Key(), key)
	}
	if dst.Value().(lua.LString) != "moved" {
		t.Errorf("destination value = %v, want moved", dst.Value())
	}
}

func TestReference_PinsNilValue(t *testing.T) {
	s := New()
	defer s.Close()

	s.Push(lua.LNil)
	ref := NewReference(s, -1)
	defer ref.Unload()
	s.Pop(1)

	// Pinning nil succeeds structurally
	if !ref.IsLoaded() {
		t.Error("pinning a nil value should still hold a pin")
	}
	if ref.Type() != lua.LTNil {
		t.Errorf("Type = %v, want nil", ref.Type())
	}
}

func TestReference_CaptureReleasesPrevious(t *testing.T) {
	s := New()
	defer s.Close()

	var ref Reference
	ref.Capture(s, lua.LNumber(1))
	first := ref.Key()
	ref.Capture(s, lua.LNumber(2))
	defer ref.Unload()

	if _, ok := s.Pins().Value(first); ok {
		t.Error("previous pin still live after re-capture")
	}
	if ref.Value().(lua.LNumber) != 2 {
		t.Errorf("value = %v, want 2", ref.Value())
	}
}
