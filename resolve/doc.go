// Package resolve walks key paths to values inside the embedded runtime.
//
// A Proxy is a deferred path descriptor: construction stores a root and a
// key tuple and performs no runtime work. Work happens when the proxy is
// realized by Get, Set, Call, Clean, TypeOf or Check; each realized
// operation is self-contained and stack-safe, so proxies are built per
// expression and thrown away.
//
// Two addressing modes exist, chosen by the constructor:
//
//	resolve.Global(s, "config", "port")     // first key names a global
//	resolve.Global(s, 2, "field")           // int first key: absolute stack position
//	resolve.At(s, obj, "nested", 3)         // keys descend from a pinned root
//
// Setting through a path auto-creates missing intermediate tables
// (auto-vivification); an intermediate that exists but is not a table is an
// error and nothing is written. Lookups honor the runtime's metamethods.
package resolve
