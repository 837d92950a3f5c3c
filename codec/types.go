package codec

import (
	"github.com/wippyai/lua-bridge/codec/internal/types"
)

type TypeKind = types.Kind

const (
	KindInvalid  = types.KindInvalid
	KindBool     = types.KindBool
	KindInt      = types.KindInt
	KindUint     = types.KindUint
	KindFloat    = types.KindFloat
	KindString   = types.KindString
	KindBytes    = types.KindBytes
	KindSlice    = types.KindSlice
	KindMap      = types.KindMap
	KindStruct   = types.KindStruct
	KindFunc     = types.KindFunc
	KindObject   = types.KindObject
	KindRef      = types.KindRef
	KindRawValue = types.KindRawValue
)

type CompiledType = types.CompiledType
type CompiledField = types.Field
