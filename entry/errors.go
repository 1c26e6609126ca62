package entry

import "fmt"

// UninitializedRequiredVariantError is returned by Polymorphic.Value (and by
// As) when a Polymorphic that is required to hold a variant is empty.
type UninitializedRequiredVariantError struct{}

func (UninitializedRequiredVariantError) Error() string {
	return "uninitialized required polymorphic entry"
}

// NoValueOfTypeError is returned when a Polymorphic is asked for a variant
// type it does not currently hold, or when its wire tag names a type absent
// from the Registry used to decode it.
type NoValueOfTypeError struct {
	Type string
}

func (e NoValueOfTypeError) Error() string {
	return fmt.Sprintf("no value of type %s held by polymorphic entry", e.Type)
}
