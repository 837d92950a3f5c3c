// Package engine wraps an embedded Lua runtime (gopher-lua) with the two
// ownership disciplines everything above it relies on: stack balance and
// pin lifetime.
//
// # Architecture
//
// The engine package provides three main types:
//
//	State     - One Lua runtime instance: stack primitives, script
//	            ingestion, protected calls, failure reporting
//	PinTable  - Keep-alive arena mapping integer pin ids to Lua values
//	Reference - Move-only owner of one pin
//
// # Stack Discipline
//
// Every operation that pushes must pop on every exit path. PopGuard records
// the stack height at acquisition and restores it on Release; callers that
// intentionally leave results declare them with Keep:
//
//	g := s.Guard()
//	defer g.Release()
//	// ... push, call, decode ...
//
// # Pin Lifetime
//
// Native code cannot hold a raw pointer into the runtime's collected heap.
// Instead, a value is pinned: copied into a keep-alive arena addressed by an
// integer id. Owning a Reference means holding an id; releasing it removes
// the id from the arena. Ids, never values, cross API boundaries.
//
// # Failure Reporting
//
// Nothing here panics as its failure-signaling mechanism. Recovered failures
// go through the State's Reporter side-channel with a severity level; the
// default reporter routes to a zap logger (no-op unless configured).
//
// # Thread Safety
//
// State and everything holding one is bound to a single goroutine. The
// package performs no internal synchronization.
package engine
