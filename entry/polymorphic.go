package entry

import (
	"encoding/json"
	"fmt"
)

// Variant is implemented by every concrete type usable inside a
// Polymorphic. VariantTag returns the stable wire tag written alongside the
// JSON-encoded payload, used both to dispatch Marshal and to pick the right
// constructor out of a Registry on decode. This is the Go stand-in for the
// closed template parameter pack (TS...) of the source implementation's
// Polymorphic<TS...>: the set of constructible variants is fixed by the
// Registry built at startup, not discoverable at runtime.
type Variant interface {
	VariantTag() string
}

// Registry is the closed set of constructible variants, keyed by wire tag.
// It is built once, typically at process startup, from a zero value of each
// variant type.
type Registry struct {
	ctor map[string]func() Variant
}

// NewRegistry builds a Registry from one constructor per variant. Each
// constructor must return a pointer to a fresh zero value, since decoding
// unmarshals into it in place.
func NewRegistry(ctors ...func() Variant) *Registry {
	var r = &Registry{ctor: make(map[string]func() Variant, len(ctors))}
	for _, ctor := range ctors {
		var tag = ctor().VariantTag()
		r.ctor[tag] = ctor
	}
	return r
}

// Polymorphic is a closed, tagged sum type: a value of exactly one variant
// type known to a Registry, or empty. Unlike a C++ base-class pointer, a Go
// interface value never slices away the concrete type underneath it, so
// there is no analog here to the source implementation's distinction
// between storing a value and storing a pointer to a polymorphic base --
// Polymorphic always carries its value's full concrete type.
type Polymorphic struct {
	tag   string
	value Variant
}

// Of wraps a concrete Variant as a Polymorphic.
func Of(v Variant) Polymorphic { return Polymorphic{tag: v.VariantTag(), value: v} }

// Tag returns the wire tag of the held variant, or "" if empty.
func (p Polymorphic) Tag() string { return p.tag }

// Exists reports whether the Polymorphic currently holds a variant.
func (p Polymorphic) Exists() bool { return p.value != nil }

// Value returns the held Variant, or UninitializedRequiredVariantError if
// the Polymorphic is empty.
func (p Polymorphic) Value() (Variant, error) {
	if p.value == nil {
		return nil, UninitializedRequiredVariantError{}
	}
	return p.value, nil
}

// As type-asserts the held Variant to T, or returns NoValueOfTypeError if
// the held variant is of a different type (or none).
func As[T Variant](p Polymorphic) (T, error) {
	var zero T
	if p.value == nil {
		return zero, UninitializedRequiredVariantError{}
	}
	if v, ok := p.value.(T); ok {
		return v, nil
	}
	return zero, NoValueOfTypeError{Type: fmt.Sprintf("%T", zero)}
}

// wireEnvelope is the {"type": ..., "value": ...} shape a Polymorphic is
// encoded as.
type wireEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalPolymorphic encodes p as a tagged JSON envelope. It fails with
// UninitializedRequiredVariantError if p is empty: an empty Polymorphic has
// no tag to write and is never a valid entry on the wire.
func MarshalPolymorphic(p Polymorphic) ([]byte, error) {
	if p.value == nil {
		return nil, UninitializedRequiredVariantError{}
	}
	var payload, err = json.Marshal(p.value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireEnvelope{Type: p.tag, Value: payload})
}

// UnmarshalPolymorphic decodes a tagged JSON envelope against reg, dispatch
// on the envelope's "type" field to the matching constructor. It returns
// NoValueOfTypeError if the tag is not present in reg.
func UnmarshalPolymorphic(data []byte, reg *Registry) (Polymorphic, error) {
	var wire wireEnvelope
	if err := json.Unmarshal(data, &wire); err != nil {
		return Polymorphic{}, err
	}
	var ctor, ok = reg.ctor[wire.Type]
	if !ok {
		return Polymorphic{}, NoValueOfTypeError{Type: wire.Type}
	}
	var v = ctor()
	if err := json.Unmarshal(wire.Value, v); err != nil {
		return Polymorphic{}, err
	}
	return Polymorphic{tag: wire.Type, value: v}, nil
}

// ClonePolymorphic returns a Cloner for Polymorphic values that round-trips
// through JSON against reg. The source implementation called this strategy
// "JavaScript-style cloning" and kept it only as a commented-out fallback,
// preferring a C++-specific clone hook; Go has no cheaper way to deep-copy
// an arbitrary closed sum type without requiring every variant to implement
// its own Clone method, so it is the primary strategy here. A Variant that
// fails to round-trip through its own JSON tags is a programmer error and
// this Cloner panics rather than surfacing it through Publish's error
// return, which is reserved for caller-facing failures.
func ClonePolymorphic(reg *Registry) Cloner[Polymorphic] {
	return func(p Polymorphic) Polymorphic {
		if p.value == nil {
			return Polymorphic{}
		}
		var data, err = MarshalPolymorphic(p)
		if err != nil {
			panic(err)
		}
		var clone Polymorphic
		if clone, err = UnmarshalPolymorphic(data, reg); err != nil {
			panic(err)
		}
		return clone
	}
}
