package engine

import (
	lua "github.com/yuin/gopher-lua"
)

// Pin is an integer id into the keep-alive table. Pin 0 is reserved as the
// unloaded sentinel and never addresses a value.
type Pin uint32

// Unloaded is the sentinel id of a reference that holds no pin.
const Unloaded Pin = 0

type pinEntry struct {
	value lua.LValue
	valid bool
}

// PinTable is the keep-alive arena: values pinned here stay reachable for
// the runtime's collector until dropped. Ids are recycled through a free
// list. The table performs no locking; a State and its pins belong to one
// goroutine.
type PinTable struct {
	entries []pinEntry
	free    []Pin
}

func newPinTable() *PinTable {
	return &PinTable{
		entries: make([]pinEntry, 0, 64),
		free:    make([]Pin, 0, 16),
	}
}

// Pin stores a value and returns its id.
func (t *PinTable) Pin(v lua.LValue) Pin {
	e := pinEntry{value: v, valid: true}

	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.entries[id-1] = e
		return id
	}

	t.entries = append(t.entries, e)
	return Pin(len(t.entries))
}

// Value retrieves a pinned value by id.
func (t *PinTable) Value(id Pin) (lua.LValue, bool) {
	if id == Unloaded || int(id) > len(t.entries) {
		return nil, false
	}
	e := t.entries[id-1]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// Drop releases a pin and returns (value, true) if it was held. Dropping an
// already-released or invalid id is a no-op.
func (t *PinTable) Drop(id Pin) (lua.LValue, bool) {
	if id == Unloaded || int(id) > len(t.entries) {
		return nil, false
	}
	e := t.entries[id-1]
	if !e.valid {
		return nil, false
	}
	t.entries[id-1] = pinEntry{}
	t.free = append(t.free, id)
	return e.value, true
}

// Len returns the number of live pins.
func (t *PinTable) Len() int {
	return len(t.entries) - len(t.free)
}

// Clear drops every pin.
func (t *PinTable) Clear() {
	t.entries = t.entries[:0]
	t.free = t.free[:0]
}

func (t *PinTable) each(f func(Pin, lua.LValue) bool) {
	for i, e := range t.entries {
		if !e.valid {
			continue
		}
		if !f(Pin(i+1), e.value) {
			return
		}
	}
}
