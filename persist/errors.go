package persist

import "fmt"

// InconsistentIndexError is returned by a Backend when a record's Index
// does not immediately follow the last one seen, during either Replay or
// PublishReplayed.
type InconsistentIndexError struct {
	Expected, Actual uint64
}

func (e *InconsistentIndexError) Error() string {
	return fmt.Sprintf("inconsistent index: expected %d, got %d", e.Expected, e.Actual)
}

// InconsistentTimestampError is returned by a Backend when a record's
// microsecond timestamp does not strictly exceed the last one seen.
type InconsistentTimestampError struct {
	LastUs, NewUs int64
}

func (e *InconsistentTimestampError) Error() string {
	return fmt.Sprintf("inconsistent timestamp: last %dus, new %dus", e.LastUs, e.NewUs)
}

// MalformedEntryError is returned by a Backend's Replay when a line from
// the on-disk log cannot be parsed into a record: a header that isn't
// valid JSON, a missing tab separator, a payload that doesn't unmarshal
// into the entry type, or a trailing line without a terminating newline.
type MalformedEntryError struct {
	Line string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed entry during replay: %q", e.Line)
}
