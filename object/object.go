package object

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"

	luabridge "github.com/wippyai/lua-bridge"
	"github.com/wippyai/lua-bridge/codec"
	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
	"github.com/wippyai/lua-bridge/resolve"
)

// Object is an owning handle to one runtime value, pinned for as long as
// the handle is loaded.
type Object struct {
	engine.Reference
}

// New returns an unloaded handle.
func New() Object {
	return Object{}
}

// FromValue pins a runtime value directly.
func FromValue(s *engine.State, v lua.LValue) Object {
	var o Object
	o.Capture(s, v)
	return o
}

// FromTop pins the value on top of the stack and pops it.
func FromTop(s *engine.State) Object {
	o := FromStack(s, -1)
	s.Pop(1)
	return o
}

// FromStack pins the value at a stack position, leaving the stack as it
// was.
func FromStack(s *engine.State, pos int) Object {
	return Object{Reference: engine.NewReference(s, pos)}
}

// Clone mints an independent pin on the same underlying value. Cloning an
// unloaded handle yields another unloaded handle.
func (o Object) Clone() Object {
	if !o.IsLoaded() {
		return Object{}
	}
	return FromValue(o.State(), o.Value())
}

// Take transfers the pin to the returned handle and unloads the receiver.
func (o *Object) Take() Object {
	return Object{Reference: o.Reference.Take()}
}

// Release drops the pin. Idempotent.
func (o *Object) Release() {
	o.Unload()
}

// Equal compares pin identity, not structural value equality: a clone of a
// handle holds a different pin and is not equal to its source. Two unloaded
// handles are equal.
func (o Object) Equal(other Object) bool {
	if !o.IsLoaded() && !other.IsLoaded() {
		return true
	}
	return o.State() == other.State() && o.Key() == other.Key()
}

// Same reports whether two handles designate the identical runtime value,
// regardless of which pin holds it.
func (o Object) Same(other Object) bool {
	if o.State() != other.State() {
		return false
	}
	if !o.IsLoaded() || !other.IsLoaded() {
		return o.IsLoaded() == other.IsLoaded()
	}
	return o.Value() == other.Value()
}

// Index builds a lazy path proxy rooted at this handle.
func (o Object) Index(keys ...any) resolve.Proxy {
	return resolve.At(o.State(), o, keys...)
}

// As converts the held value to a native type. An unloaded handle or a
// shape mismatch is reported and yields the zero value.
func As[T any](o Object) T {
	var zero T
	s := o.State()
	if s == nil || !o.IsLoaded() {
		if s != nil {
			s.Report(luabridge.SeverityError, errors.Unloaded("convert"))
		}
		return zero
	}
	rv, err := codec.DecodeValue(s, o.Value(), typeOf[T]())
	if err != nil {
		s.Report(luabridge.SeverityError, err)
		return zero
	}
	return rv.Interface().(T)
}

// Is reports whether the held value is structurally convertible to a
// native type. Unloaded handles are convertible to nothing.
func Is[T any](o Object) bool {
	s := o.State()
	if s == nil || !o.IsLoaded() {
		return false
	}
	return codec.CheckLua(s, o.Value(), typeOf[T]())
}

// Call0 invokes the held callable, discarding results.
func Call0(o Object, args ...any) error {
	_, err := call(o, 0, args)
	return err
}

// Call1 invokes the held callable and decodes one result.
func Call1[R any](o Object, args ...any) (R, error) {
	var r R
	outs, err := call(o, 1, args)
	if err != nil {
		return r, err
	}
	return decodeOut[R](o.State(), outs[0], &err), err
}

// Call2 is Call1 for two results.
func Call2[R1, R2 any](o Object, args ...any) (R1, R2, error) {
	var r1 R1
	var r2 R2
	outs, err := call(o, 2, args)
	if err != nil {
		return r1, r2, err
	}
	r1 = decodeOut[R1](o.State(), outs[0], &err)
	r2 = decodeOut[R2](o.State(), outs[1], &err)
	return r1, r2, err
}

// Call3 is Call1 for three results.
func Call3[R1, R2, R3 any](o Object, args ...any) (R1, R2, R3, error) {
	var r1 R1
	var r2 R2
	var r3 R3
	outs, err := call(o, 3, args)
	if err != nil {
		return r1, r2, r3, err
	}
	r1 = decodeOut[R1](o.State(), outs[0], &err)
	r2 = decodeOut[R2](o.State(), outs[1], &err)
	r3 = decodeOut[R3](o.State(), outs[2], &err)
	return r1, r2, r3, err
}

// call pushes the pinned callable and encoded arguments, performs a
// protected call, and captures nret results before rebalancing the stack.
func call(o Object, nret int, args []any) ([]lua.LValue, error) {
	s := o.State()
	if s == nil || !o.IsLoaded() {
		err := errors.Unloaded("call")
		if s != nil {
			s.Report(luabridge.SeverityError, err)
		}
		return nil, err
	}

	g := s.Guard()
	defer g.Release()

	o.Push()
	for _, a := range args {
		lv, encErr := codec.EncodeAny(s, a)
		if encErr != nil {
			s.Report(luabridge.SeverityError, encErr)
			lv = lua.LNil
		}
		s.Push(lv)
	}

	if err := s.ProtectedCall(len(args), nret); err != nil {
		return nil, err
	}

	outs := make([]lua.LValue, nret)
	first := s.Top() - nret + 1
	for i := range outs {
		outs[i] = s.Get(first + i)
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

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
