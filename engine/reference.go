package engine

import (
	lua "github.com/yuin/gopher-lua"
)

// Reference owns one pin in the keep-alive table and nothing else.
// Ownership is move-only at this level: transfer with Take, duplicate by
// re-pushing and re-pinning (see object.Object.Clone). Copying the struct
// aliases the pin and is a caller error.
type Reference struct {
	s   *State
	key Pin
}

// NewReference pins the value at a stack position. The stack slot is left
// unchanged; pinning a nil value succeeds.
func NewReference(s *State, pos int) Reference {
	var r Reference
	r.Capture(s, s.Get(pos))
	return r
}

// Capture pins a runtime value, releasing any pin held before.
func (r *Reference) Capture(s *State, v lua.LValue) {
	r.Unload()
	r.s = s
	if v == nil {
		v = lua.LNil
	}
	r.key = s.pins.Pin(v)
}

// Value returns the pinned value, or nil when unloaded.
func (r Reference) Value() lua.LValue {
	if !r.IsLoaded() {
		return lua.LNil
	}
	v, ok := r.s.pins.Value(r.key)
	if !ok {
		return lua.LNil
	}
	return v
}

// Push re-pushes the pinned value onto the stack. An unloaded reference
// pushes nil instead, so callers can always count on exactly one slot.
func (r Reference) Push() int {
	r.s.Push(r.Value())
	return 1
}

// Unload releases the pin. Idempotent.
func (r *Reference) Unload() {
	if r.key != Unloaded && r.s != nil {
		r.s.pins.Drop(r.key)
	}
	r.key = Unloaded
}

// IsLoaded reports whether the reference holds a live pin.
func (r Reference) IsLoaded() bool {
	if r.key == Unloaded || r.s == nil {
		return false
	}
	_, ok := r.s.pins.Value(r.key)
	return ok
}

// Key returns the pin id, or Unloaded.
func (r Reference) Key() Pin {
	return r.key
}

// State returns the runtime instance the reference was created against.
func (r Reference) State() *State {
	return r.s
}

// Type returns the runtime type of the pinned value without touching the
// stack. An unloaded reference is nil-typed.
func (r Reference) Type() lua.LValueType {
	return r.Value().Type()
}

// Take transfers the pin to the returned reference and leaves the source
// unloaded.
func (r *Reference) Take() Reference {
	moved := Reference{s: r.s, key: r.key}
	r.key = Unloaded
	return moved
}
