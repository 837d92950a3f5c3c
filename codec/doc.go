// Package codec translates between native Go values and values on the
// embedded runtime's evaluation stack.
//
// # Classification
//
// Every native type is routed to exactly one strategy by Classify, which
// reflects once per type and caches the result:
//
//	Go type                     Kind       Lua shape
//	───────────────────────────────────────────────────
//	bool                        bool       boolean
//	int*, uint*                 int/uint   number (integer-valued)
//	float32, float64            float      number
//	string                      string     string
//	[]byte                      bytes      string
//	[]T                         slice      table, 1..N
//	map[string]T                map        table, string keys
//	struct                      struct     table, field-named keys
//	func(...) ...               func       function
//	*T (bind-registered)        object     userdata
//	engine.Reference, Object    ref        any (pins in place)
//	lua.LValue and friends      rawvalue   passthrough
//
// Classification is total and unambiguous: a type that fits no strategy is
// an error the first time it is used, never a silent fallback. A bool never
// satisfies the numeric kinds.
//
// # Contract
//
// Get reports failures through the State's side-channel and returns the
// zero value; Check never reports a mismatch, it just answers; Push always
// produces exactly one stack slot. None of them disturb stack balance.
//
// # Callables
//
// The codec bridges callables in both directions: WrapFunc turns a Go
// function into a runtime-invocable handle, and Get of a func type turns a
// scripted function into a Go closure that performs a protected call on
// each invocation.
package codec
