// Package idxts defines the (index, timestamp) pair that identifies a
// published record's position in a log, and the Clock used to mint the
// timestamp half of that pair.
package idxts

import "fmt"

// IdxTs pairs a 1-based, gapless sequence number with the microsecond
// timestamp it was published at. Index is the log's total order; Micros
// exists for display and for the strict-monotonicity check backends apply
// on Publish and during Replay.
type IdxTs struct {
	Index  uint64 `json:"index"`
	Micros int64  `json:"us"`
}

// Less orders two IdxTs by Index, which is always consistent with Micros
// ordering for a log that has upheld its own invariants.
func (a IdxTs) Less(b IdxTs) bool { return a.Index < b.Index }

func (a IdxTs) String() string { return fmt.Sprintf("%d@%dus", a.Index, a.Micros) }
