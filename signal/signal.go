// Package signal implements a many-to-many terminate signal: any number of
// scanners can wait on it, any goroutine can raise it, and raising it wakes
// every scanner currently registered against it, not just one.
package signal

import "sync"

// TerminateSignal is a one-shot, broadcastable flag. Once Raised, it stays
// raised. A scanner's blocking wait registers its wake condition with the
// signal for the duration of the wait via Register, so Raise can find and
// wake it even though the signal itself holds no lock a waiter blocks on.
type TerminateSignal struct {
	mu      sync.Mutex
	raised  bool
	waiters map[*sync.Cond]int
}

// New returns a TerminateSignal that has not been raised.
func New() *TerminateSignal {
	return &TerminateSignal{waiters: make(map[*sync.Cond]int)}
}

// Raise marks the signal raised and broadcasts every currently registered
// condition variable. Raising an already-raised signal is a no-op beyond
// re-broadcasting, which is harmless.
func (s *TerminateSignal) Raise() {
	s.mu.Lock()
	s.raised = true
	var conds = make([]*sync.Cond, 0, len(s.waiters))
	for c := range s.waiters {
		conds = append(conds, c)
	}
	s.mu.Unlock()

	for _, c := range conds {
		c.Broadcast()
	}
}

// Raised reports whether Raise has been called.
func (s *TerminateSignal) Raised() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raised
}

// Register adds cond to the set broadcast to when the signal is raised.
// The returned unregister func removes that registration; it is safe to
// call more than once. Multiple callers may register the same cond (for
// instance, several scanners sharing one persister's notify condition
// variable); the signal tracks a refcount and only drops the cond once
// every registration for it has been unregistered.
func (s *TerminateSignal) Register(cond *sync.Cond) (unregister func()) {
	s.mu.Lock()
	s.waiters[cond]++
	s.mu.Unlock()

	var done bool
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if done {
			return
		}
		done = true
		if s.waiters[cond] <= 1 {
			delete(s.waiters, cond)
		} else {
			s.waiters[cond]--
		}
	}
}
