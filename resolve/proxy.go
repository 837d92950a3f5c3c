package resolve

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/codec"
	"github.com/wippyai/lua-bridge/engine"
)

// Proxy is a lazily evaluated path descriptor: a non-owning root plus an
// ordered tuple of keys. It is cheap to build and extend; no runtime work
// happens until an operation realizes it.
type Proxy struct {
	s    *engine.State
	root engine.Valuer
	keys []any
}

// Global builds a proxy whose first key resolves against the runtime's
// global table, or, when integral, against an absolute stack position.
func Global(s *engine.State, keys ...any) Proxy {
	return Proxy{s: s, keys: keys}
}

// At builds a proxy whose keys descend from a value already pinned by root
// (an engine.Reference or object.Object).
func At(s *engine.State, root engine.Valuer, keys ...any) Proxy {
	return Proxy{s: s, root: root, keys: keys}
}

// Index extends the key path, returning a new proxy. The receiver is left
// usable.
func (p Proxy) Index(key any) Proxy {
	keys := make([]any, len(p.keys)+1)
	copy(keys, p.keys)
	keys[len(p.keys)] = key
	p.keys = keys
	return p
}

// Keys returns the path as strings, for diagnostics.
func (p Proxy) Keys() []string {
	out := make([]string, len(p.keys))
	for i, k := range p.keys {
		out[i] = fmt.Sprint(k)
	}
	return out
}

// TypeOf resolves the path and returns the runtime type of the target, or
// the nil type when the path cannot be walked.
func (p Proxy) TypeOf() lua.LValueType {
	g := p.s.Guard()
	defer g.Release()

	v, err := p.value()
	if err != nil {
		p.s.Report(luabridge.SeverityWarn, err)
		return lua.LTNil
	}
	return v.Type()
}

// Get resolves the path and decodes the target into a native type. An
// unwalkable path or a decode mismatch is reported and yields the zero
// value.
func Get[T any](p Proxy) T {
	var zero T
	g := p.s.Guard()
	defer g.Release()

	v, err := p.value()
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return zero
	}
	rv, err := codec.DecodeValue(p.s, v, typeOf[T]())
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return zero
	}
	return rv.Interface().(T)
}

// Check reports whether the path resolves to a value structurally
// convertible to the native type. An unwalkable path is simply false.
func Check[T any](p Proxy) bool {
	g := p.s.Guard()
	defer g.Release()

	v, err := p.value()
	if err != nil {
		return false
	}
	return codec.CheckLua(p.s, v, typeOf[T]())
}

// Set writes a native value at the path, synthesizing missing intermediate
// tables on the way. An intermediate that exists but is not a table is an
// error and nothing is written.
func (p Proxy) Set(v any) error {
	g := p.s.Guard()
	defer g.Release()

	lv, err := codec.EncodeAny(p.s, v)
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return err
	}
	return p.setValue(lv)
}

// Clean sets the path's final slot to nil. Unlike Set it never creates
// intermediate tables.
func (p Proxy) Clean() error {
	g := p.s.Guard()
	defer g.Release()

	parent, last, err := p.parent(false)
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return err
	}
	if parent == lua.LNil {
		return nil
	}
	lk, err := p.keyValue(last)
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return err
	}
	p.s.L.SetTable(parent, lk, lua.LNil)
	return nil
}

// Call0 resolves the path to a callable and applies it, discarding results.
func Call0(p Proxy, args ...any) error {
	_, err := p.call(0, args)
	return err
}

// Call1 resolves the path to a callable, applies it, and decodes one result.
func Call1[R any](p Proxy, args ...any) (R, error) {
	var r R
	outs, err := p.call(1, args)
	if err != nil {
		return r, err
	}
	return decodeOut[R](p.s, outs[0], &err), err
}

// Call2 is Call1 for two results.
func Call2[R1, R2 any](p Proxy, args ...any) (R1, R2, error) {
	var r1 R1
	var r2 R2
	outs, err := p.call(2, args)
	if err != nil {
		return r1, r2, err
	}
	r1 = decodeOut[R1](p.s, outs[0], &err)
	r2 = decodeOut[R2](p.s, outs[1], &err)
	return r1, r2, err
}

// call resolves the callable, pushes encoded arguments, performs a
// protected call, and hands back the raw results. Results are captured as
// values before the guard releases, so the stack stays net-neutral.
func (p Proxy) call(nret int, args []any) ([]lua.LValue, error) {
	g := p.s.Guard()
	defer g.Release()

	fv, err := p.value()
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return nil, err
	}

	p.s.Push(fv)
	for _, a := range args {
		lv, encErr := codec.EncodeAny(p.s, a)
		if encErr != nil {
			p.s.Report(luabridge.SeverityError, encErr)
			lv = lua.LNil
		}
		p.s.Push(lv)
	}

	if err := p.s.ProtectedCall(len(args), nret); err != nil {
		return nil, err
	}

	outs := make([]lua.LValue, nret)
	first := p.s.Top() - nret + 1
	for i := range outs {
		outs[i] = p.s.Get(first + i)
	}
	return outs, nil
}

func decodeOut[R any](s *engine.State, lv lua.LValue, errOut *error) R {
	var zero R
	rv, err := codec.DecodeValue(s, lv, typeOf[R]())
	if err != nil {
		s.Report(luabridge.SeverityError, err)
		if *errOut == nil {
			*errOut = err
		}
		return zero
	}
	return rv.Interface().(R)
}
