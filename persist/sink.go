package persist

import (
	"github.com/zyy1659949090/logpersist/container"
	"github.com/zyy1659949090/logpersist/idxts"
)

// Sink receives the records a Scan delivers. OnEntry is called once per
// record, in order, with the record itself and the container's most
// recently known IdxTs at the time of delivery; returning false stops the
// scan before any further record is delivered (OnReplayDone still fires if
// that record was the last one of the replay set).
//
// OnReplayDone and OnTerminate are optional narrower interfaces a Sink may
// additionally implement -- Go's stand-in for the original implementation's
// optional template hook methods, which a type could define or omit and
// have the dispatcher call only if present.
type Sink[E any] interface {
	OnEntry(rec container.LogRecord[E], lastIdxTs idxts.IdxTs) bool
}

// ReplayDoneSink is implemented by a Sink that wants to know the instant a
// Scan transitions from replaying pre-existing records to waiting on newly
// published ones. It fires at most once per Scan call: right after the
// record whose Index equals the log's size at the start of the Scan has
// been delivered, or before the first OnEntry if the log was empty at the
// start. A Scan that stops before delivering that record never fires it.
type ReplayDoneSink interface {
	OnReplayDone()
}

// TerminateSink is implemented by a Sink that wants a say in whether a
// raised terminate signal actually stops the scan. It is consulted at most
// once per Scan call, the first time the signal is observed raised; its
// return value decides whether the scan stops (true) or keeps running
// (false). A Sink that does not implement TerminateSink always stops.
type TerminateSink interface {
	OnTerminate() bool
}
