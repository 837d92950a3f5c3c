// Package bind registers native types and functions with the runtime.
//
// A Class describes how scripts see a native type: named methods, readable
// and writable properties, and optionally a finalizer. Register installs
// the class as a typed metatable and records the type name with the state,
// which is what lets the codec push pointers of that type as tagged
// userdata and decode them back.
//
//	bind.Register[*Counter](s, bind.Class{
//		Name:    "counter",
//		Methods: []bind.Method{{Name: "inc", Func: (*Counter).Inc}},
//		Properties: []bind.Property{
//			{Name: "value", Get: (*Counter).Value, Set: (*Counter).SetValue},
//		},
//	})
//
// Struct is the reflective shortcut: it binds every exported method of a
// type under a snake_case name. RegisterFunc publishes a plain Go function
// as a global.
package bind
