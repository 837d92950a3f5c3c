// Package errors provides structured error types for the lua-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: key path, Go/Lua type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("config", "port").
//		GoType("int").
//		LuaType("string").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseDecode, "int", "string")
//	err := errors.InvalidPath([]string{"a", "b"}, "number")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
