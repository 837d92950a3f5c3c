package engine

import (
	lua "github.com/yuin/gopher-lua"
)

// Capturer is implemented by handle types (Reference, object.Object) that
// pin a runtime value into the keep-alive table. Capturing always succeeds
// structurally, including for a nil value.
type Capturer interface {
	Capture(s *State, v lua.LValue)
}

// Valuer is implemented by handle types that can reproduce their pinned
// value. An unloaded handle yields nil.
type Valuer interface {
	Value() lua.LValue
}

// Dropper is optionally implemented by bound native values that need
// cleanup when their pin is released at state close.
type Dropper interface {
	Drop()
}
