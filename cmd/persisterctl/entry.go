package main

import "github.com/zyy1659949090/logpersist/entry"

// textEntry is the one variant persisterctl's log entries come in: a plain
// line of text tagged with the producer that appended it. It's registered
// as a Polymorphic variant -- rather than used as a bare struct entry type
// -- purely to exercise the polymorphic registry end to end from the CLI;
// a real embedder with a single concrete entry type would skip entry.
// Polymorphic entirely and use the struct directly as E.
type textEntry struct {
	Producer string `json:"producer"`
	Text     string `json:"text"`
}

func (*textEntry) VariantTag() string { return "text" }

var entryRegistry = entry.NewRegistry(
	func() entry.Variant { return new(textEntry) },
)
