package engine

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestPinTable_PinValue(t *testing.T) {
	tbl := newPinTable()

	id := tbl.Pin(lua.LString("hello"))
	if id == Unloaded {
		t.Fatal("Pin returned the unloaded sentinel")
	}

	v, ok := tbl.Value(id)
	if !ok {
		t.Fatal("Value did not find pinned entry")
	}
	if v.(lua.LString) != "hello" {
		t.Errorf("Value = %v, want hello", v)
	}
}

func TestPinTable_UniqueIds(t *testing.T) {
	tbl := newPinTable()

	a := tbl.Pin(lua.LNumber(1))
	b := tbl.Pin(lua.LNumber(2))
	if a == b {
		t.Errorf("distinct pins share id %d", a)
	}
}

func TestPinTable_Drop(t *testing.T) {
	tbl := newPinTable()

	id := tbl.Pin(lua.LNumber(42))
	v, ok := tbl.Drop(id)
	if !ok {
		t.Fatal("Drop did not find pinned entry")
	}
	if v.(lua.LNumber) != 42 {
		t.Errorf("dropped value = %v, want 42", v)
	}

	if _, ok := tbl.Value(id); ok {
		t.Error("Value found entry after Drop")
	}

	// Second drop is a no-op
	if _, ok := tbl.Drop(id); ok {
		t.Error("Drop succeeded twice for the same id")
	}
}

func TestPinTable_IdRecycling(t *testing.T) {
	tbl := newPinTable()

	a := tbl.Pin(lua.LNumber(1))
	tbl.Pin(lua.LNumber(2))
	tbl.Drop(a)

	c := tbl.Pin(lua.LNumber(3))
	if c != a {
		t.Errorf("freed id %d was not recycled, got %d", a, c)
	}

	v, _ := tbl.Value(c)
	if v.(lua.LNumber) != 3 {
		t.Errorf("recycled slot holds %v, want 3", v)
	}
}

func TestPinTable_Len(t *testing.T) {
	tbl := newPinTable()

	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}

	a := tbl.Pin(lua.LNumber(1))
	tbl.Pin(lua.LNumber(2))
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}

	tbl.Drop(a)
	if tbl.Len() != 1 {
		t.Errorf("Len = %d, want 1", tbl.Len())
	}

	tbl.Clear()
	if tbl.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", tbl.Len())
	}
}

func TestPinTable_InvalidIds(t *testing.T) {
	tbl := newPinTable()
	tbl.Pin(lua.LNumber(1))

	if _, ok := tbl.Value(Unloaded); ok {
		t.Error("Value accepted the unloaded sentinel")
	}
	if _, ok := tbl.Value(99); ok {
		t.Error("Value accepted an out-of-range id")
	}
	if _, ok := tbl.Drop(99); ok {
		t.Error("Drop accepted an out-of-range id")
	}
}
