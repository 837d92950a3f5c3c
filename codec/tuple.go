package codec

import (
	"reflect"

	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

// GetTuple decodes len(outs) consecutive stack slots starting at first,
// mapped 1:1 to the pointed-to outs.
func GetTuple(s *engine.State, first int, outs ...any) error {
	first = s.AbsIndex(first)
	for i, out := range outs {
		if err := decodeInto(s, first+i, out); err != nil {
			return err
		}
	}
	return nil
}

// GetResults decodes the len(outs) call results ending at the stack top.
// Results land consecutively ending at the top, so the starting position is
// computed backwards from it.
func GetResults(s *engine.State, outs ...any) error {
	return GetTuple(s, s.Top()-len(outs)+1, outs...)
}

func decodeInto(s *engine.State, pos int, out any) error {
	pv := reflect.ValueOf(out)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return errors.InvalidInput(errors.PhaseDecode, "tuple outputs must be non-nil pointers")
	}
	rv, err := DecodeValue(s, s.Get(pos), pv.Type().Elem())
	if err != nil {
		return err
	}
	pv.Elem().Set(rv)
	return nil
}
