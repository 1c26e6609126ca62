package persist

import "github.com/zyy1659949090/logpersist/idxts"

// Backend is the storage strategy a Persister is built on: it owns the
// durable representation (if any) of the log, assigns each published entry
// its IdxTs, and replays previously-stored entries back into the container
// at construction time. Publish and PublishReplayed are called only while
// the persister's own lock is held, and Replay only from New, before the
// Persister is returned to any caller, so a Backend implementation needs
// no internal synchronization of its own.
type Backend[E any] interface {
	// Replay reconstructs prior state by calling push once per previously
	// stored record, in order. It is called exactly once, during
	// construction, before any Publish.
	Replay(push func(idxts.IdxTs, E) error) error

	// Publish durably records e, assigns it the next IdxTs, and returns
	// that IdxTs.
	Publish(e E) (idxts.IdxTs, error)

	// PublishReplayed durably records e at a caller-assigned IdxTs,
	// rather than minting a new one. It is used to mirror records whose
	// index and timestamp were already assigned elsewhere.
	PublishReplayed(e E, at idxts.IdxTs) error
}
