package codec

import (
	"math"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

// Get decodes the value at a stack position into a native type. On a
// mismatch the failure is reported through the side-channel and the type's
// zero value is returned; the stack is never disturbed, so the caller's
// balance discipline holds on every path.
func Get[T any](s *engine.State, pos int) T {
	var zero T
	ct, err := Classify(typeOf[T]())
	if err != nil {
		s.Report(luabridge.SeverityError, err)
		return zero
	}
	rv, err := decodeValue(s, s.Get(pos), ct)
	if err != nil {
		s.Report(luabridge.SeverityError, err)
		return zero
	}
	return rv.Interface().(T)
}

// DecodeValue converts a runtime value into a native one without touching
// the stack. Used by the call paths that already hold their values.
func DecodeValue(s *engine.State, lv lua.LValue, t reflect.Type) (reflect.Value, error) {
	ct, err := Classify(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return decodeValue(s, lv, ct)
}

func decodeValue(s *engine.State, lv lua.LValue, ct *CompiledType) (reflect.Value, error) {
	switch ct.Kind {
	case KindBool:
		b, ok := lv.(lua.LBool)
		if !ok {
			return reflect.Value{}, mismatch(ct, lv)
		}
		return convert(reflect.ValueOf(bool(b)), ct.GoType), nil

	case KindInt, KindUint:
		n, ok := lv.(lua.LNumber)
		if !ok {
			return reflect.Value{}, mismatch(ct, lv)
		}
		f := float64(n)
		if f != math.Trunc(f) {
			return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
				GoType(ct.GoType.String()).
				LuaType(lv.Type().String()).
				Detail("fractional value %v requested as integral", f).
				Build()
		}
		out := reflect.New(ct.GoType).Elem()
		if ct.Kind == KindInt {
			out.SetInt(int64(f))
		} else {
			out.SetUint(uint64(f))
		}
		return out, nil

	case KindFloat:
		n, ok := lv.(lua.LNumber)
		if !ok {
			return reflect.Value{}, mismatch(ct, lv)
		}
		out := reflect.New(ct.GoType).Elem()
		out.SetFloat(float64(n))
		return out, nil

	case KindString:
		str, ok := lv.(lua.LString)
		if !ok {
			return reflect.Value{}, mismatch(ct, lv)
		}
		return convert(reflect.ValueOf(string(str)), ct.GoType), nil

	case KindBytes:
		str, ok := lv.(lua.LString)
		if !ok {
			return reflect.Value{}, mismatch(ct, lv)
		}
		return reflect.ValueOf([]byte(str)), nil

	case KindSlice:
		return decodeSlice(s, lv, ct)

	case KindMap:
		return decodeMap(s, lv, ct)

	case KindStruct:
		return decodeStruct(s, lv, ct)

	case KindFunc:
		fn, ok := lv.(*lua.LFunction)
		if !ok {
			return reflect.Value{}, mismatch(ct, lv)
		}
		return makeGoClosure(s, fn, ct), nil

	case KindObject:
		ud, ok := lv.(*lua.LUserData)
		if !ok || ud.Value == nil || !reflect.TypeOf(ud.Value).AssignableTo(ct.GoType) {
			return reflect.Value{}, mismatch(ct, lv)
		}
		return reflect.ValueOf(ud.Value), nil

	case KindRef:
		// Always succeeds structurally: pins whatever is there, nil included.
		pv := reflect.New(ct.GoType)
		pv.Interface().(engine.Capturer).Capture(s, lv)
		return pv.Elem(), nil

	case KindRawValue:
		out := reflect.New(ct.GoType).Elem()
		rv := reflect.ValueOf(lv)
		if !rv.Type().AssignableTo(ct.GoType) {
			return reflect.Value{}, mismatch(ct, lv)
		}
		out.Set(rv)
		return out, nil

	default:
		return reflect.Value{}, errors.Unsupported(errors.PhaseDecode, ct.GoType.String())
	}
}

// decodeSlice iterates 1-based indices until the first nil slot. A sequence
// with a hole decodes to the prefix before the hole: {1, nil, 3} yields
// {1}, shorter than expected rather than an error.
func decodeSlice(s *engine.State, lv lua.LValue, ct *CompiledType) (reflect.Value, error) {
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		return reflect.Value{}, mismatch(ct, lv)
	}
	out := reflect.MakeSlice(ct.GoType, 0, tbl.Len())
	for i := 1; ; i++ {
		ev := tbl.RawGetInt(i)
		if ev == lua.LNil {
			break
		}
		rv, err := decodeValue(s, ev, ct.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, rv)
	}
	return out, nil
}

// decodeMap walks all pairs with the runtime's own iterator. Only string
// keys participate; other key types are skipped rather than failing the
// whole decode.
func decodeMap(s *engine.State, lv lua.LValue, ct *CompiledType) (reflect.Value, error) {
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		return reflect.Value{}, mismatch(ct, lv)
	}
	out := reflect.MakeMap(ct.GoType)
	key := lua.LValue(lua.LNil)
	for {
		k, v := tbl.Next(key)
		if k == lua.LNil {
			break
		}
		key = k
		ks, ok := k.(lua.LString)
		if !ok {
			continue
		}
		rv, err := decodeValue(s, v, ct.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(reflect.ValueOf(string(ks)).Convert(ct.GoType.Key()), rv)
	}
	return out, nil
}

// decodeStruct fills fields by name; missing fields stay zero.
func decodeStruct(s *engine.State, lv lua.LValue, ct *CompiledType) (reflect.Value, error) {
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		return reflect.Value{}, mismatch(ct, lv)
	}
	out := reflect.New(ct.GoType).Elem()
	for _, f := range ct.Fields {
		fv := tbl.RawGetString(f.Name)
		if fv == lua.LNil {
			continue
		}
		rv, err := decodeValue(s, fv, f.Type)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Field(f.Index).Set(rv)
	}
	return out, nil
}

func convert(rv reflect.Value, t reflect.Type) reflect.Value {
	if rv.Type() == t {
		return rv
	}
	return rv.Convert(t)
}

func mismatch(ct *CompiledType, lv lua.LValue) *errors.Error {
	return errors.TypeMismatch(errors.PhaseDecode, ct.GoType.String(), lv.Type().String())
}
