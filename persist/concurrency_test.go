package persist

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	gc "github.com/go-check/check"

	"github.com/zyy1659949090/logpersist/container"
	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/signal"
)

type ConcurrencySuite struct{}

var _ = gc.Suite(&ConcurrencySuite{})

// concurrentSink accumulates delivered records from a live scanner running
// alongside the publishers below; its only job is to let the test assert on
// exactly what a tailing subscriber saw once every publisher has finished.
type concurrentSink struct {
	mu          sync.Mutex
	indices     []uint64
	replayDones int
}

func (s *concurrentSink) OnEntry(rec container.LogRecord[string], _ idxts.IdxTs) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices = append(s.indices, rec.IdxTs.Index)
	return true
}

func (s *concurrentSink) OnReplayDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replayDones++
}

func (s *concurrentSink) snapshot() ([]uint64, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint64(nil), s.indices...), s.replayDones
}

// TestConcurrentPublishersAssignUniqueOrderedIndices drives several
// publisher goroutines at the same Persister simultaneously, alongside a
// scanner tailing from the start, and checks the one property the
// three-stage lock exists to guarantee: with K publishers racing and T
// total publishes, every Index in 1..T is assigned to exactly one publish
// call, and a scanner observes exactly T records in that same strict order,
// with OnReplayDone firing exactly once.
func (s *ConcurrencySuite) TestConcurrentPublishersAssignUniqueOrderedIndices(c *gc.C) {
	const goroutines = 4
	const perGoroutine = 250
	const total = goroutines * perGoroutine

	var p, err = New[string](newMemBackend(), func(v string) string { return v })
	c.Assert(err, gc.IsNil)

	var sink = &concurrentSink{}
	var term = signal.New()
	var scanDone = make(chan error, 1)
	go func() { scanDone <- p.Scan(context.Background(), term, sink) }()

	var wg sync.WaitGroup
	var assignedMu sync.Mutex
	var assigned = make(map[uint64]int) // index -> count of publishers that received it

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for n := 0; n < perGoroutine; n++ {
				var it, pubErr = p.Publish(fmt.Sprintf("g%d-%d", g, n))
				c.Check(pubErr, gc.IsNil)
				assignedMu.Lock()
				assigned[it.Index]++
				assignedMu.Unlock()
			}
		}(g)
	}
	wg.Wait()

	c.Assert(assigned, gc.HasLen, total)
	for index := uint64(1); index <= uint64(total); index++ {
		c.Check(assigned[index], gc.Equals, 1)
	}
	c.Check(p.Size(), gc.Equals, uint64(total))

	for i := 0; i < 200; i++ {
		if indices, _ := sink.snapshot(); len(indices) >= total {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	term.Raise()

	select {
	case err := <-scanDone:
		c.Assert(err, gc.IsNil)
	case <-time.After(2 * time.Second):
		c.Fatal("scan did not stop after terminate was raised")
	}

	indices, replayDones := sink.snapshot()
	c.Assert(indices, gc.HasLen, total)
	c.Check(sort.SliceIsSorted(indices, func(i, j int) bool { return indices[i] < indices[j] }), gc.Equals, true)
	for i, index := range indices {
		c.Check(index, gc.Equals, uint64(i+1))
	}
	c.Check(replayDones, gc.Equals, 1)
}
