// Package backend implements the three storage strategies a Persister can
// be built on: Null (count-only, no durability), LegacyText (a tab-
// separated line format kept for reading older logs), and FramedJSON (a
// JSON-headed line format used for new logs).
package backend

import "encoding/json"

// Codec marshals and unmarshals an entry's payload for the line-oriented
// backends. JSONCodec is the default and suffices for any concrete,
// non-polymorphic entry type; an entry type whose wire encoding needs
// external context to decode -- most notably entry.Polymorphic, which
// needs a *entry.Registry to pick the right variant constructor -- supplies
// its own Codec built against that context instead.
type Codec[E any] struct {
	Marshal   func(E) ([]byte, error)
	Unmarshal func([]byte) (E, error)
}

// JSONCodec is the Codec for any entry type encoding/json can marshal and
// unmarshal on its own.
func JSONCodec[E any]() Codec[E] {
	return Codec[E]{
		Marshal: func(e E) ([]byte, error) { return json.Marshal(e) },
		Unmarshal: func(data []byte) (E, error) {
			var e E
			var err = json.Unmarshal(data, &e)
			return e, err
		},
	}
}
