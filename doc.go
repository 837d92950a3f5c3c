// Package luabridge provides a marshalling bridge between native Go code and
// an embedded Lua runtime (github.com/yuin/gopher-lua).
//
// This library lets Go code and Lua scripts exchange values, call each
// other's functions, and hold long-lived references to script values, without
// writing manual stack manipulation for every type.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	luabridge/       Root package with the Severity/Reporter side-channel contract
//	├── engine/      Lua state wrapper: stack discipline, pin table, references
//	├── codec/       Type classification and encode/decode between Go and Lua
//	├── object/      Copyable reference wrapper with typed access and invocation
//	├── resolve/     Key-path resolver and lazily evaluated lookup proxies
//	├── bind/        Class binding registry for Go types exposed to Lua
//	├── errors/      Structured error types for debugging
//	└── cmd/run      CLI for running scripts with an interactive console
//
// # Quick Start
//
// Run a script and read its results:
//
//	s := engine.New()
//	defer s.Close()
//
//	if err := s.RunString(`return 1, "passed", true`); err != nil {
//	    log.Fatal(err)
//	}
//	n := codec.Get[int](s, -3)
//	msg := codec.Get[string](s, -2)
//	ok := codec.Get[bool](s, -1)
//
// Register a Go function and call it from Lua:
//
//	bind.RegisterFunc(s, "add", func(a, b int) string {
//	    return strconv.Itoa(a + b)
//	})
//	s.RunString(`return add(2, 3)`) // leaves "5" on the stack
//
// Hold a script value beyond the current call:
//
//	obj := object.FromTop(s)
//	defer obj.Release()
//	sum, err := object.Call1[int](obj, 2, 3)
//
// # Error Reporting
//
// Nothing in the core panics as its failure-signaling mechanism. Failures are
// reported through a pluggable Reporter callback with a severity level, a
// safe default value is returned, and stack balance is preserved. Operations
// that Go idiom expects to fail loudly additionally return an error.
//
// # Thread Safety
//
// A State and everything built on it is bound to a single goroutine. The
// library performs no internal synchronization; the Lua runtime itself is not
// safe for concurrent use.
package luabridge
