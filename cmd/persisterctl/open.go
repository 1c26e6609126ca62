package main

import (
	"fmt"

	"github.com/zyy1659949090/logpersist/backend"
	"github.com/zyy1659949090/logpersist/entry"
	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/persist"
)

// entryCodec marshals and unmarshals a textEntry wrapped as a Polymorphic,
// dispatching against entryRegistry.
var entryCodec = backend.Codec[entry.Polymorphic]{
	Marshal: entry.MarshalPolymorphic,
	Unmarshal: func(data []byte) (entry.Polymorphic, error) {
		return entry.UnmarshalPolymorphic(data, entryRegistry)
	},
}

// openPersister builds the Backend named by opts.Backend over opts.LogPath
// and wraps it in a Persister over entry.Polymorphic, using
// ClonePolymorphic as the Cloner.
func openPersister(opts *RootOptions) (*persist.Persister[entry.Polymorphic], error) {
	var clock = idxts.SystemClock{}
	var be persist.Backend[entry.Polymorphic]

	switch opts.Backend {
	case "null":
		be = backend.NewNull[entry.Polymorphic](clock)
	case "legacy":
		be = backend.NewLegacyText[entry.Polymorphic](opts.LogPath, clock, entryCodec)
	case "framed":
		be = backend.NewFramedJSON[entry.Polymorphic](opts.LogPath, clock, entryCodec)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}

	return persist.New[entry.Polymorphic](be, entry.ClonePolymorphic(entryRegistry))
}
