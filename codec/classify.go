package codec

import (
	"reflect"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

var (
	lvalueType   = reflect.TypeOf((*lua.LValue)(nil)).Elem()
	capturerType = reflect.TypeOf((*engine.Capturer)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

var classifyCache sync.Map // reflect.Type -> *CompiledType

// Classify routes a native type to exactly one codec strategy. The result
// is cached per type; an unsupported or ambiguous type is an error the
// first time it is used, never a silent opaque fallback.
func Classify(t reflect.Type) (*CompiledType, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseClassify, errors.KindInvalidInput).
			Detail("type cannot be nil").
			Build()
	}
	if cached, ok := classifyCache.Load(t); ok {
		return cached.(*CompiledType), nil
	}

	ct, err := classify(t, make(map[reflect.Type]bool))
	if err != nil {
		return nil, err
	}

	classifyCache.Store(t, ct)
	return ct, nil
}

func classify(t reflect.Type, seen map[reflect.Type]bool) (*CompiledType, error) {
	if seen[t] {
		return nil, errors.Unsupported(errors.PhaseClassify, "recursive type "+t.String())
	}

	// Handle types (Reference, Object) pin whatever they are given;
	// they must never fall through to the struct codec.
	if t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(capturerType) {
		return &CompiledType{GoType: t, Kind: KindRef}, nil
	}

	// Runtime values pass through untranslated.
	if t == lvalueType || t.Implements(lvalueType) {
		return &CompiledType{GoType: t, Kind: KindRawValue}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &CompiledType{GoType: t, Kind: KindBool}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &CompiledType{GoType: t, Kind: KindInt}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &CompiledType{GoType: t, Kind: KindUint}, nil

	case reflect.Float32, reflect.Float64:
		return &CompiledType{GoType: t, Kind: KindFloat}, nil

	case reflect.String:
		return &CompiledType{GoType: t, Kind: KindString}, nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &CompiledType{GoType: t, Kind: KindBytes}, nil
		}
		elem, err := classify(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &CompiledType{GoType: t, Kind: KindSlice, Elem: elem}, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, errors.Unsupported(errors.PhaseClassify,
				"map key must be string, got "+t.Key().String())
		}
		elem, err := classify(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &CompiledType{GoType: t, Kind: KindMap, Elem: elem}, nil

	case reflect.Struct:
		return classifyStruct(t, seen)

	case reflect.Func:
		return classifyFunc(t, seen)

	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return &CompiledType{GoType: t, Kind: KindObject}, nil
		}
		return nil, errors.Unsupported(errors.PhaseClassify,
			"pointer to non-struct type "+t.String())

	default:
		return nil, errors.Unsupported(errors.PhaseClassify, t.String())
	}
}

func classifyStruct(t reflect.Type, seen map[reflect.Type]bool) (*CompiledType, error) {
	seen[t] = true
	defer delete(seen, t)

	ct := &CompiledType{GoType: t, Kind: KindStruct}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("lua"); ok {
			if tag == "-" {
				continue
			}
			if comma := strings.IndexByte(tag, ','); comma >= 0 {
				tag = tag[:comma]
			}
			if tag != "" {
				name = tag
			}
		}
		fct, err := classify(f.Type, seen)
		if err != nil {
			return nil, err
		}
		ct.Fields = append(ct.Fields, CompiledField{Type: fct, Name: name, Index: i})
	}
	return ct, nil
}

func classifyFunc(t reflect.Type, seen map[reflect.Type]bool) (*CompiledType, error) {
	if t.IsVariadic() {
		return nil, errors.Unsupported(errors.PhaseClassify, "variadic func "+t.String())
	}

	ct := &CompiledType{GoType: t, Kind: KindFunc}
	for i := 0; i < t.NumIn(); i++ {
		in, err := classify(t.In(i), seen)
		if err != nil {
			return nil, err
		}
		ct.In = append(ct.In, in)
	}
	for i := 0; i < t.NumOut(); i++ {
		out := t.Out(i)
		if out == errorType {
			if i != t.NumOut()-1 {
				return nil, errors.Unsupported(errors.PhaseClassify,
					"error must be the last result in "+t.String())
			}
			ct.ErrOut = true
			break
		}
		oct, err := classify(out, seen)
		if err != nil {
			return nil, err
		}
		ct.Out = append(ct.Out, oct)
	}
	return ct, nil
}

// typeOf resolves the reflect.Type for a type parameter, including
// interface types like lua.LValue that reflect.TypeOf would lose.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
