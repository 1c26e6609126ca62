package persist

import (
	"context"
	"sync"
	"time"

	gc "github.com/go-check/check"

	"github.com/zyy1659949090/logpersist/container"
	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/signal"
)

type ScanSuite struct{}

var _ = gc.Suite(&ScanSuite{})

// recordingSink accumulates delivered records and counts replay-done
// notifications; it implements ReplayDoneSink but not TerminateSink, so a
// raised terminate always stops the scan.
type recordingSink struct {
	mu          sync.Mutex
	records     []container.LogRecord[string]
	replayDones int
	stopAfter   int // if > 0, OnEntry returns false once len(records) reaches this
}

func (s *recordingSink) OnEntry(rec container.LogRecord[string], _ idxts.IdxTs) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if s.stopAfter > 0 && len(s.records) >= s.stopAfter {
		return false
	}
	return true
}

func (s *recordingSink) OnReplayDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replayDones++
}

func (s *recordingSink) snapshot() ([]container.LogRecord[string], int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]container.LogRecord[string](nil), s.records...), s.replayDones
}

func (s *ScanSuite) TestScanEmptyLogFiresReplayDoneImmediately(c *gc.C) {
	var p, err = New[string](newMemBackend(), func(v string) string { return v })
	c.Assert(err, gc.IsNil)

	var sink = &recordingSink{}
	var term = signal.New()
	term.Raise() // one-shot scan: stop as soon as caught up

	c.Assert(p.Scan(context.Background(), term, sink), gc.IsNil)

	records, replayDones := sink.snapshot()
	c.Check(records, gc.HasLen, 0)
	c.Check(replayDones, gc.Equals, 1)
}

func (s *ScanSuite) TestScanDeliversExistingThenReplayDone(c *gc.C) {
	var p, err = New[string](newMemBackend(), func(v string) string { return v })
	c.Assert(err, gc.IsNil)

	_, err = p.Publish("a")
	c.Assert(err, gc.IsNil)
	_, err = p.Publish("b")
	c.Assert(err, gc.IsNil)

	var sink = &recordingSink{stopAfter: 2}
	c.Assert(p.Scan(context.Background(), nil, sink), gc.IsNil)

	records, replayDones := sink.snapshot()
	c.Assert(records, gc.HasLen, 2)
	c.Check(records[0].Value, gc.Equals, "a")
	c.Check(records[1].Value, gc.Equals, "b")
	c.Check(replayDones, gc.Equals, 1)
}

func (s *ScanSuite) TestScanTailsLiveData(c *gc.C) {
	var p, err = New[string](newMemBackend(), func(v string) string { return v })
	c.Assert(err, gc.IsNil)

	var sink = &recordingSink{}
	var term = signal.New()

	var done = make(chan error, 1)
	go func() { done <- p.Scan(context.Background(), term, sink) }()

	// give the scanner a chance to reach the replay-done / wait state
	time.Sleep(20 * time.Millisecond)

	_, err = p.Publish("live-1")
	c.Assert(err, gc.IsNil)
	_, err = p.Publish("live-2")
	c.Assert(err, gc.IsNil)

	// poll briefly for the scanner to observe both records, then stop it
	for i := 0; i < 100; i++ {
		if records, _ := sink.snapshot(); len(records) >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	term.Raise()

	select {
	case err := <-done:
		c.Assert(err, gc.IsNil)
	case <-time.After(time.Second):
		c.Fatal("scan did not stop after terminate was raised")
	}

	records, replayDones := sink.snapshot()
	c.Assert(records, gc.HasLen, 2)
	c.Check(records[0].Value, gc.Equals, "live-1")
	c.Check(records[1].Value, gc.Equals, "live-2")
	c.Check(replayDones, gc.Equals, 1)
}

func (s *ScanSuite) TestScanStopsWhenSinkReturnsFalse(c *gc.C) {
	var p, err = New[string](newMemBackend(), func(v string) string { return v })
	c.Assert(err, gc.IsNil)

	for _, v := range []string{"a", "b", "c"} {
		_, err = p.Publish(v)
		c.Assert(err, gc.IsNil)
	}

	var sink = &recordingSink{stopAfter: 1}
	c.Assert(p.Scan(context.Background(), signal.New(), sink), gc.IsNil)

	records, _ := sink.snapshot()
	c.Assert(records, gc.HasLen, 1)
	c.Check(records[0].Value, gc.Equals, "a")
}

// vetoingSink implements TerminateSink and refuses the first terminate it
// observes, so a raised signal alone must not stop the scan.
type vetoingSink struct {
	recordingSink
	mu      sync.Mutex
	checked bool
}

func (s *vetoingSink) OnTerminate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = true
	return false
}

func (s *ScanSuite) TestTerminateSinkCanVeto(c *gc.C) {
	var p, err = New[string](newMemBackend(), func(v string) string { return v })
	c.Assert(err, gc.IsNil)

	var sink = &vetoingSink{recordingSink: recordingSink{stopAfter: 1}}
	var term = signal.New()
	term.Raise()

	var done = make(chan error, 1)
	go func() { done <- p.Scan(context.Background(), term, sink) }()

	time.Sleep(20 * time.Millisecond)
	_, err = p.Publish("after-veto")
	c.Assert(err, gc.IsNil)

	select {
	case err := <-done:
		c.Assert(err, gc.IsNil)
	case <-time.After(time.Second):
		c.Fatal("scan did not stop after sink-vetoed terminate, then delivering a record, then stopAfter")
	}

	sink.mu.Lock()
	checked := sink.checked
	sink.mu.Unlock()
	c.Check(checked, gc.Equals, true)

	records, _ := sink.snapshot()
	c.Assert(records, gc.HasLen, 1)
	c.Check(records[0].Value, gc.Equals, "after-veto")
}

func (s *ScanSuite) TestContextCancellationStopsScan(c *gc.C) {
	var p, err = New[string](newMemBackend(), func(v string) string { return v })
	c.Assert(err, gc.IsNil)

	var ctx, cancel = context.WithCancel(context.Background())
	var sink = &recordingSink{}

	var done = make(chan error, 1)
	go func() { done <- p.Scan(ctx, nil, sink) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		c.Assert(err, gc.IsNil)
	case <-time.After(time.Second):
		c.Fatal("scan did not stop after context cancellation")
	}
}
