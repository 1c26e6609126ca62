package persist

import (
	"context"

	"github.com/zyy1659949090/logpersist/container"
	"github.com/zyy1659949090/logpersist/signal"
)

// scanCursor tracks where a Scan is positioned: atEnd means "nothing
// delivered yet" before the first record, or "caught up with the tail" once
// at least one has been. A fresh scanCursor is always atEnd.
type scanCursor[E any] struct {
	node  *container.Node[E]
	atEnd bool
}

// advance computes the cursor one step past cur, under the container lock
// already held by the caller.
func advance[E any](list *container.Container[E], cur scanCursor[E]) scanCursor[E] {
	var n *container.Node[E]
	if cur.atEnd {
		n = list.Front()
	} else {
		n = cur.node.Next()
	}
	return scanCursor[E]{node: n, atEnd: n == nil}
}

// Scan walks every record in the log, oldest first, delivering each to
// sink.OnEntry. If the scan catches up to the tail before terminate (or
// ctx) is raised, it blocks until either a new record is published or the
// signal fires, rather than returning -- making Scan equally suitable for
// a one-shot replay (raise terminate as soon as OnReplayDone fires) and for
// an indefinitely tailing follower. A terminate that is already raised when
// Scan is called is observed before the first record is delivered, so such
// a Scan delivers nothing unless its sink vetoes the terminate.
//
// ctx cancellation is treated identically to raising terminate: on ctx.Done
// this Scan call raises terminate itself, so a shared terminate passed by a
// caller juggling several concurrent Scan calls should generally be paired
// with context.Background() rather than a context whose cancellation
// should be scoped to just one of them.
func (p *Persister[E]) Scan(ctx context.Context, terminate *signal.TerminateSignal, sink Sink[E]) error {
	if terminate == nil {
		terminate = signal.New()
	}
	if ctx != nil && ctx.Done() != nil {
		var stop = make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-ctx.Done():
				terminate.Raise()
			case <-stop:
			}
		}()
	}

	var (
		replayDoneSink, hasReplayDone = sink.(ReplayDoneSink)
		terminateSink, hasTerminate   = sink.(TerminateSink)
		replayDone                    bool
		terminateChecked              bool
	)

	notifyReplayDone := func() {
		if !replayDone {
			replayDone = true
			if hasReplayDone {
				replayDoneSink.OnReplayDone()
			}
		}
	}

	// checkTerminate consults the sink about a just-raised signal at most
	// once, and reports whether the scan should stop now.
	checkTerminate := func() bool {
		if terminateChecked || !terminate.Raised() {
			return false
		}
		terminateChecked = true
		var stop = true
		if hasTerminate {
			stop = terminateSink.OnTerminate()
		}
		if stop {
			p.log.Debug("scan terminated: signal raised")
		} else {
			p.log.Debug("scan terminate signal raised but vetoed by sink")
		}
		return stop
	}

	var sizeAtStart = p.Size()
	addTrace(ctx, "scan starting, size at start: %d", sizeAtStart)
	if sizeAtStart == 0 {
		notifyReplayDone()
		addTrace(ctx, "replay done (log was empty)")
	}

	var current = scanCursor[E]{atEnd: true}

	for {
		if checkTerminate() {
			return nil
		}

		if !current.atEnd {
			var unlock = p.lock.ContainerLock()
			var last = p.list.LastIdxTs()
			unlock()

			var keepGoing = sink.OnEntry(current.node.Record, last)
			if !replayDone && current.node.Record.IdxTs.Index >= sizeAtStart {
				notifyReplayDone()
				addTrace(ctx, "replay done at index %d", current.node.Record.IdxTs.Index)
			}
			if !keepGoing {
				addTrace(ctx, "scan stopped by sink at index %d", current.node.Record.IdxTs.Index)
				p.log.WithField("index", current.node.Record.IdxTs.Index).Debug("scan terminated: sink returned false from OnEntry")
				return nil
			}
		}

		var next scanCursor[E]
		for {
			if checkTerminate() {
				return nil
			}

			var knownSize uint64
			var unlock = p.lock.ContainerLock()
			next = advance(&p.list, current)
			knownSize = p.list.Size()
			unlock()

			if !next.atEnd {
				break
			}
			p.waitForData(terminate, knownSize)
		}
		current = next
	}
}

// waitForData blocks until either the container grows past knownSize or
// terminate is raised.
func (p *Persister[E]) waitForData(terminate *signal.TerminateSignal, knownSize uint64) {
	var unlock = p.lock.ContainerLock()
	defer unlock()

	var unregister = terminate.Register(p.cond)
	defer unregister()

	for p.list.Size() <= knownSize && !terminate.Raised() {
		p.cond.Wait()
	}
}
