package bind

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/codec"
	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

// Class describes the script-visible surface of a native type.
type Class struct {
	// Name tags the metatable and the pushed userdata.
	Name string

	// Methods are callables whose first parameter is the receiver.
	Methods []Method

	// Properties are read and optionally write accessors.
	Properties []Property

	// Finalize requires the type to implement engine.Dropper; pinned
	// instances then have Drop invoked when the state closes.
	Finalize bool
}

// Method binds one named callable.
type Method struct {
	Name string
	Func any
}

// Property binds one named accessor pair. Get is required; a nil Set makes
// the property read-only.
type Property struct {
	Name string
	Get  any
	Set  any
}

// Register installs a class for the native type T, which must be a pointer
// to struct. Method and getter lookups go through __index, setter writes
// through __newindex.
func Register[T any](s *engine.State, c Class) error {
	return register(s, reflect.TypeOf((*T)(nil)).Elem(), c)
}

// RegisterFunc publishes a Go function as a global callable.
func RegisterFunc(s *engine.State, name string, fn any) error {
	lf, err := codec.WrapFunc(s, fn)
	if err != nil {
		return err
	}
	s.L.SetGlobal(name, lf)
	return nil
}

// Struct binds every exported method of T under its snake_case name.
// Methods whose signatures the codec cannot bridge are skipped and noted
// on the side-channel.
func Struct[T any](s *engine.State, name string) error {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Pointer {
		rt = reflect.PointerTo(rt)
	}

	var methods []Method
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !m.IsExported() {
			continue
		}
		if _, err := codec.Classify(m.Func.Type()); err != nil {
			s.Reportf(luabridge.SeverityDebug, "skipping %s.%s: %v", name, m.Name, err)
			continue
		}
		methods = append(methods, Method{Name: toSnakeCase(m.Name), Func: m.Func.Interface()})
	}

	return register(s, rt, Class{Name: name, Methods: methods})
}

func register(s *engine.State, rt reflect.Type, c Class) error {
	if rt.Kind() != reflect.Pointer || rt.Elem().Kind() != reflect.Struct {
		return errors.Registration(fmt.Sprintf("bound type must be a pointer to struct, got %s", rt))
	}
	if c.Name == "" {
		return errors.Registration("class name must not be empty")
	}
	if c.Finalize && !rt.Implements(reflect.TypeOf((*engine.Dropper)(nil)).Elem()) {
		return errors.Registration(fmt.Sprintf("finalizable class %q needs %s to implement Drop()", c.Name, rt))
	}

	methods := make(map[string]*lua.LFunction, len(c.Methods))
	for _, m := range c.Methods {
		fn, err := wrapAccessor(s, rt, c.Name, m.Name, m.Func, -1)
		if err != nil {
			return err
		}
		methods[m.Name] = fn
	}

	getters := make(map[string]*lua.LFunction, len(c.Properties))
	setters := make(map[string]*lua.LFunction)
	for _, p := range c.Properties {
		if p.Get == nil {
			return errors.Registration(fmt.Sprintf("property %q of class %q has no getter", p.Name, c.Name))
		}
		get, err := wrapAccessor(s, rt, c.Name, p.Name, p.Get, 1)
		if err != nil {
			return err
		}
		getters[p.Name] = get
		if p.Set != nil {
			set, err := wrapAccessor(s, rt, c.Name, p.Name, p.Set, 2)
			if err != nil {
				return err
			}
			setters[p.Name] = set
		}
	}

	if err := s.RegisterTypeName(rt, c.Name); err != nil {
		return err
	}

	mt := s.L.NewTypeMetatable(c.Name)
	mt.RawSetString("__index", s.L.NewFunction(func(L *lua.LState) int {
		L.CheckUserData(1)
		key := L.CheckString(2)
		if fn, ok := methods[key]; ok {
			L.Push(fn)
			return 1
		}
		if get, ok := getters[key]; ok {
			L.Push(get)
			L.Push(L.Get(1))
			L.Call(1, 1)
			return 1
		}
		L.Push(lua.LNil)
		return 1
	}))
	mt.RawSetString("__newindex", s.L.NewFunction(func(L *lua.LState) int {
		L.CheckUserData(1)
		key := L.CheckString(2)
		set, ok := setters[key]
		if !ok {
			L.RaiseError("no writable property %q on %s", key, c.Name)
			return 0
		}
		L.Push(set)
		L.Push(L.Get(1))
		L.Push(L.Get(3))
		L.Call(2, 0)
		return 0
	}))
	mt.RawSetString("__tostring", s.L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		L.Push(lua.LString(fmt.Sprintf("%s: %p", c.Name, ud.Value)))
		return 1
	}))

	return nil
}

// wrapAccessor validates the receiver parameter (and arity when arity >= 0)
// and wraps the function for the runtime.
func wrapAccessor(s *engine.State, rt reflect.Type, class, name string, fn any, arity int) (*lua.LFunction, error) {
	ft := reflect.TypeOf(fn)
	if fn == nil || ft.Kind() != reflect.Func {
		return nil, errors.Registration(fmt.Sprintf("%s.%s is not a function", class, name))
	}
	if ft.NumIn() == 0 || ft.In(0) != rt {
		return nil, errors.Registration(fmt.Sprintf("%s.%s must take %s as its first parameter", class, name, rt))
	}
	if arity >= 0 && ft.NumIn() != arity {
		return nil, errors.Registration(fmt.Sprintf("%s.%s must take exactly %d parameter(s)", class, name, arity))
	}
	lf, err := codec.WrapFunc(s, fn)
	if err != nil {
		return nil, errors.New(errors.PhaseBind, errors.KindRegistration).
			Detail("%s.%s", class, name).
			Cause(err).
			Build()
	}
	return lf, nil
}

// toSnakeCase converts an exported Go method name to its script-side form:
// "SetValue" becomes "set_value", "HTTPGet" becomes "http_get".
func toSnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
