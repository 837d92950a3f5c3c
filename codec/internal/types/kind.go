package types

type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindSlice
	KindMap
	KindStruct
	KindFunc
	KindObject
	KindRef
	KindRawValue
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindBool:     "bool",
	KindInt:      "int",
	KindUint:     "uint",
	KindFloat:    "float",
	KindString:   "string",
	KindBytes:    "bytes",
	KindSlice:    "slice",
	KindMap:      "map",
	KindStruct:   "struct",
	KindFunc:     "func",
	KindObject:   "object",
	KindRef:      "ref",
	KindRawValue: "rawvalue",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNumeric reports whether the kind decodes from the runtime's unified
// number representation. Bool is deliberately excluded.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindUint || k == KindFloat
}

// IsTableShaped reports whether values of this kind encode to and decode
// from a table-like container.
func (k Kind) IsTableShaped() bool {
	return k == KindSlice || k == KindMap || k == KindStruct
}
