package codec

import (
	"math"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/engine"
)

// Check is the non-throwing predicate: true iff the value at a stack
// position is structurally convertible to the native type. Containers only
// need table shape; callables only need to be invocable; handle types
// accept anything.
func Check[T any](s *engine.State, pos int) bool {
	ct, err := Classify(typeOf[T]())
	if err != nil {
		s.Report(luabridge.SeverityError, err)
		return false
	}
	return checkValue(s, s.Get(pos), ct)
}

// CheckLua applies the same predicate to an already-held runtime value.
func CheckLua(s *engine.State, lv lua.LValue, t reflect.Type) bool {
	ct, err := Classify(t)
	if err != nil {
		s.Report(luabridge.SeverityError, err)
		return false
	}
	return checkValue(s, lv, ct)
}

func checkValue(s *engine.State, lv lua.LValue, ct *CompiledType) bool {
	switch ct.Kind {
	case KindBool:
		return lv.Type() == lua.LTBool

	case KindInt, KindUint:
		// The runtime has one numeric representation; the is-integer gate
		// applies only when an integral type is requested.
		n, ok := lv.(lua.LNumber)
		if !ok {
			return false
		}
		return float64(n) == math.Trunc(float64(n))

	case KindFloat:
		return lv.Type() == lua.LTNumber

	case KindString, KindBytes:
		return lv.Type() == lua.LTString

	case KindSlice, KindMap, KindStruct:
		return lv.Type() == lua.LTTable

	case KindFunc:
		return lv.Type() == lua.LTFunction

	case KindObject:
		ud, ok := lv.(*lua.LUserData)
		return ok && ud.Value != nil && reflect.TypeOf(ud.Value).AssignableTo(ct.GoType)

	case KindRef:
		return true

	case KindRawValue:
		return reflect.TypeOf(lv).AssignableTo(ct.GoType)

	default:
		return false
	}
}
