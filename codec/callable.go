package codec

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

// WrapFunc wraps a native callable (function value, method value, closure)
// behind a runtime-invocable handle. When the script invokes it, arguments
// are decoded from positions 1..N, the native callable runs, and its
// results are pushed back (a trailing error result raises inside the
// runtime instead). The handle is reclaimed only by the runtime's own
// collector.
func WrapFunc(s *engine.State, fn any) (*lua.LFunction, error) {
	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		goType := "nil"
		if rv.IsValid() {
			goType = rv.Type().String()
		}
		return nil, errors.New(errors.PhaseBind, errors.KindTypeMismatch).
			GoType(goType).
			Detail("handler must be a function").
			Build()
	}
	ct, err := Classify(rv.Type())
	if err != nil {
		return nil, err
	}
	return wrapGoFunc(s, rv, ct), nil
}

func wrapGoFunc(s *engine.State, fn reflect.Value, ct *CompiledType) *lua.LFunction {
	return s.L.NewFunction(func(L *lua.LState) int {
		args := make([]reflect.Value, len(ct.In))
		for i, pct := range ct.In {
			rv, err := decodeValue(s, L.Get(i+1), pct)
			if err != nil {
				s.Report(luabridge.SeverityError, err)
				L.RaiseError("bad argument #%d: %s", i+1, err.Error())
				return 0
			}
			args[i] = rv
		}

		outs := fn.Call(args)
		if ct.ErrOut {
			last := outs[len(outs)-1]
			if !last.IsNil() {
				L.RaiseError("%s", last.Interface().(error).Error())
				return 0
			}
			outs = outs[:len(outs)-1]
		}

		for i, ov := range outs {
			lv, err := encodeValue(s, ov, ct.Out[i])
			if err != nil {
				s.Report(luabridge.SeverityError, err)
				lv = lua.LNil
			}
			L.Push(lv)
		}
		return len(outs)
	})
}

// makeGoClosure is the inverse direction: a scripted function is pinned and
// wrapped in a native closure matching the requested signature. Calling the
// closure pushes the function and its encoded arguments, performs a
// protected call, and decodes the declared results. The closure is only
// valid while its State is alive.
func makeGoClosure(s *engine.State, fn *lua.LFunction, ct *CompiledType) reflect.Value {
	var ref engine.Reference
	ref.Capture(s, fn)

	return reflect.MakeFunc(ct.GoType, func(args []reflect.Value) []reflect.Value {
		g := s.Guard()
		defer g.Release()

		nret := len(ct.Out)
		s.Push(ref.Value())
		for i, a := range args {
			lv, err := encodeValue(s, a, ct.In[i])
			if err != nil {
				s.Report(luabridge.SeverityError, err)
				lv = lua.LNil
			}
			s.Push(lv)
		}

		callErr := s.ProtectedCall(len(args), nret)

		results := make([]reflect.Value, 0, nret+1)
		if callErr == nil {
			first := s.Top() - nret + 1
			for i, oct := range ct.Out {
				rv, err := decodeValue(s, s.Get(first+i), oct)
				if err != nil {
					s.Report(luabridge.SeverityError, err)
					rv = reflect.Zero(oct.GoType)
				}
				results = append(results, rv)
			}
		} else {
			for _, oct := range ct.Out {
				results = append(results, reflect.Zero(oct.GoType))
			}
		}

		if ct.ErrOut {
			ev := reflect.New(errorType).Elem()
			if callErr != nil {
				ev.Set(reflect.ValueOf(callErr))
			}
			results = append(results, ev)
		}
		return results
	})
}
