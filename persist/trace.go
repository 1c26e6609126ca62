package persist

import (
	"context"

	"golang.org/x/net/trace"
)

// addTrace attaches a formatted entry to the golang.org/x/net/trace event
// log carried on ctx, if any. It's a no-op when ctx carries no trace.Trace,
// which is the common case for a Scan call not wired up to a tracing
// server.
func addTrace(ctx context.Context, format string, args ...interface{}) {
	if ctx == nil {
		return
	}
	if tr, ok := trace.FromContext(ctx); ok {
		tr.LazyPrintf(format, args...)
	}
}
