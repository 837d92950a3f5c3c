// Package object provides an owning handle to a single runtime value.
//
// Object embeds engine.Reference and adds the value-level operations a
// handle needs day to day: typed conversion (As, Is), invocation (Call0
// through Call3), duplication (Clone) and path indexing (Index, which
// hands off to the resolve package). The zero Object is unloaded; every
// operation on an unloaded handle reports through the state's side-channel
// and returns safe defaults rather than touching the runtime.
//
// Ownership is move-only: Take transfers the pin and unloads the source,
// Clone mints an independent pin on the same underlying value.
package object
