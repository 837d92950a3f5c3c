package types

import (
	"reflect"
)

// CompiledType is the cached classification of one native type: exactly one
// Kind plus whatever structure the codec needs to walk it without
// re-reflecting on every value.
type CompiledType struct {
	GoType reflect.Type
	Elem   *CompiledType
	Fields []Field
	In     []*CompiledType
	Out    []*CompiledType
	ErrOut bool
	Kind   Kind
}

// Field is one encodable struct field.
type Field struct {
	Type  *CompiledType
	Name  string
	Index int
}

func (ct *CompiledType) IsPrimitive() bool {
	switch ct.Kind {
	case KindBool, KindInt, KindUint, KindFloat, KindString, KindBytes:
		return true
	default:
		return false
	}
}
