package resolve

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/errors"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// start resolves the proxy's anchor value and returns the keys still to be
// walked. In global mode the anchor is the global table, unless the first
// key is an integer, which selects an absolute stack position instead.
func (p Proxy) start() (lua.LValue, []any, error) {
	if p.root != nil {
		return p.root.Value(), p.keys, nil
	}
	if len(p.keys) == 0 {
		return nil, nil, errors.InvalidInput(errors.PhaseResolve, "empty path")
	}
	if pos, ok := p.keys[0].(int); ok {
		return p.s.Get(pos), p.keys[1:], nil
	}
	return p.s.Globals(), p.keys, nil
}

// keyValue encodes one path key as a runtime value.
func (p Proxy) keyValue(key any) (lua.LValue, error) {
	switch k := key.(type) {
	case string:
		return lua.LString(k), nil
	case int:
		return lua.LNumber(k), nil
	case int64:
		return lua.LNumber(k), nil
	case float64:
		return lua.LNumber(k), nil
	case lua.LValue:
		return k, nil
	default:
		return nil, errors.InvalidInput(errors.PhaseResolve,
			fmt.Sprintf("unsupported path key type %T", key))
	}
}

// value walks the full path and returns the target. Lookups go through
// GetTable, so __index metamethods on intermediates are honored. A missing
// final key yields nil, not an error; a non-indexable intermediate does
// error.
func (p Proxy) value() (lua.LValue, error) {
	cur, rest, err := p.start()
	if err != nil {
		return nil, err
	}
	for _, key := range rest {
		lk, kerr := p.keyValue(key)
		if kerr != nil {
			return nil, kerr
		}
		if !indexable(p.s.L, cur) {
			return nil, errors.InvalidPath(p.Keys(), cur.Type().String())
		}
		cur = p.s.L.GetTable(cur, lk)
	}
	return cur, nil
}

// parent walks to the container of the final key. With create set, missing
// intermediates are synthesized as fresh tables; without it, a missing
// intermediate returns a nil parent and no error, so callers can treat the
// whole path as absent. An intermediate that exists but cannot be indexed
// is an error either way.
func (p Proxy) parent(create bool) (lua.LValue, any, error) {
	cur, rest, err := p.start()
	if err != nil {
		return nil, nil, err
	}
	if len(rest) == 0 {
		return nil, nil, errors.InvalidInput(errors.PhaseResolve,
			"path has no container to assign into")
	}

	last := rest[len(rest)-1]
	for _, key := range rest[:len(rest)-1] {
		lk, kerr := p.keyValue(key)
		if kerr != nil {
			return nil, nil, kerr
		}
		if !indexable(p.s.L, cur) {
			return nil, nil, errors.InvalidPath(p.Keys(), cur.Type().String())
		}
		next := p.s.L.GetTable(cur, lk)
		if next == lua.LNil {
			if !create {
				return lua.LNil, last, nil
			}
			tbl := p.s.L.NewTable()
			p.s.L.SetTable(cur, lk, tbl)
			next = tbl
		}
		cur = next
	}

	if !settable(p.s.L, cur) {
		return nil, nil, errors.InvalidPath(p.Keys(), cur.Type().String())
	}
	return cur, last, nil
}

// setValue assigns into the path's final slot, synthesizing intermediates.
func (p Proxy) setValue(lv lua.LValue) error {
	parent, last, err := p.parent(true)
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return err
	}
	lk, err := p.keyValue(last)
	if err != nil {
		p.s.Report(luabridge.SeverityError, err)
		return err
	}
	p.s.L.SetTable(parent, lk, lv)
	return nil
}

// indexable reports whether GetTable can be applied to v without raising.
func indexable(L *lua.LState, v lua.LValue) bool {
	if v.Type() == lua.LTTable {
		return true
	}
	return L.GetMetaField(v, "__index") != lua.LNil
}

// settable reports whether SetTable can be applied to v without raising.
func settable(L *lua.LState, v lua.LValue) bool {
	if v.Type() == lua.LTTable {
		return true
	}
	return L.GetMetaField(v, "__newindex") != lua.LNil
}
