package codec

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

// Push encodes a native value onto the stack top. It always produces
// exactly one slot: on an encode failure the error is reported through the
// side-channel and nil is pushed instead, preserving stack arithmetic for
// the caller.
func Push[T any](s *engine.State, v T) int {
	lv, err := EncodeAny(s, v)
	if err != nil {
		s.Report(luabridge.SeverityError, err)
		lv = lua.LNil
	}
	s.Push(lv)
	return 1
}

// EncodeAny converts a native value to a runtime value without touching the
// stack. Containers are built as tables; funcs become runtime-invocable
// closures.
func EncodeAny(s *engine.State, v any) (lua.LValue, error) {
	if v == nil {
		return lua.LNil, nil
	}
	rv := reflect.ValueOf(v)
	ct, err := Classify(rv.Type())
	if err != nil {
		return lua.LNil, err
	}
	return encodeValue(s, rv, ct)
}

func encodeValue(s *engine.State, rv reflect.Value, ct *CompiledType) (lua.LValue, error) {
	switch ct.Kind {
	case KindBool:
		return lua.LBool(rv.Bool()), nil

	case KindInt:
		return lua.LNumber(rv.Int()), nil

	case KindUint:
		return lua.LNumber(rv.Uint()), nil

	case KindFloat:
		return lua.LNumber(rv.Float()), nil

	case KindString:
		return lua.LString(rv.String()), nil

	case KindBytes:
		return lua.LString(rv.Bytes()), nil

	case KindSlice:
		tbl := s.L.CreateTable(rv.Len(), 0)
		for i := 0; i < rv.Len(); i++ {
			ev, err := encodeValue(s, rv.Index(i), ct.Elem)
			if err != nil {
				return lua.LNil, err
			}
			tbl.RawSetInt(i+1, ev)
		}
		return tbl, nil

	case KindMap:
		tbl := s.L.CreateTable(0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := encodeValue(s, iter.Value(), ct.Elem)
			if err != nil {
				return lua.LNil, err
			}
			tbl.RawSetString(iter.Key().String(), ev)
		}
		return tbl, nil

	case KindStruct:
		tbl := s.L.CreateTable(0, len(ct.Fields))
		for _, f := range ct.Fields {
			fv, err := encodeValue(s, rv.Field(f.Index), f.Type)
			if err != nil {
				return lua.LNil, err
			}
			tbl.RawSetString(f.Name, fv)
		}
		return tbl, nil

	case KindFunc:
		if rv.IsNil() {
			return lua.LNil, nil
		}
		return wrapGoFunc(s, rv, ct), nil

	case KindObject:
		return encodeObject(s, rv, ct)

	case KindRef:
		pv := reflect.New(ct.GoType)
		pv.Elem().Set(rv)
		return pv.Interface().(engine.Valuer).Value(), nil

	case KindRawValue:
		if (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) && rv.IsNil() {
			return lua.LNil, nil
		}
		return rv.Interface().(lua.LValue), nil

	default:
		return lua.LNil, errors.Unsupported(errors.PhaseEncode, ct.GoType.String())
	}
}

// encodeObject wraps a pointer to a bind-registered native type in tagged
// userdata so later decodes and runtime method dispatch round-trip through
// the type's binding descriptor.
func encodeObject(s *engine.State, rv reflect.Value, ct *CompiledType) (lua.LValue, error) {
	if rv.IsNil() {
		return lua.LNil, nil
	}
	name, ok := s.TypeNameOf(ct.GoType)
	if !ok {
		return lua.LNil, errors.New(errors.PhaseEncode, errors.KindRegistration).
			GoType(ct.GoType.String()).
			Detail("type has no binding descriptor; register it with bind first").
			Build()
	}
	ud := s.L.NewUserData()
	ud.Value = rv.Interface()
	if mt := s.L.GetTypeMetatable(name); mt != lua.LNil {
		s.L.SetMetatable(ud, mt)
	}
	return ud, nil
}
