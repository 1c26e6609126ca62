// Package entry supplies the building blocks a persisted log needs around
// its entry type: a Cloner capability for decoupling a stored record from
// the publisher's buffer, and, for logs whose entry type is a closed sum of
// concrete variants rather than one fixed struct, a tagged Polymorphic
// container with a Registry for reconstructing the right variant on replay.
package entry

// Cloner deep-copies a value of type E so a container can retain an owned
// snapshot that is independent of the publisher's buffer. It mirrors the
// CLONER template parameter of the original implementation, kept as an
// external capability rather than a method on E so that plain value types
// need not implement anything at all.
type Cloner[E any] func(E) E

// Identity is the default Cloner for value types without pointer, slice, or
// map fields: Go's assignment already deep-copies such values, so returning
// the argument unmodified is correct. Entry types with any indirection must
// supply their own Cloner.
func Identity[E any](e E) E { return e }
