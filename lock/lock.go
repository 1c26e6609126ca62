// Package lock implements the stage-disciplined lock a persister lifts
// itself through while publishing: admission, commit, and notify, named so
// each critical section documents exactly which resource it protects.
package lock

import (
	"fmt"
	"sync"
)

// ThreeStageLock backs all three stages -- admission, commit, notify --
// with one real mutex. The design note this follows from: a single mutex
// plus a separate condition variable produces identical externally
// observable orderings to three distinct mutexes, since stage 2 and stage 3
// are held by at most one publisher at a time and a scanner never holds
// more than one stage concurrently. Using three distinct sync.Mutex values
// would instead open an unsynchronized window between a publisher
// releasing stage 1 and acquiring stage 2, during which a scanner could
// observe the container mid-mutation -- exactly what stage 2 exists to
// prevent.
type ThreeStageLock struct {
	mu sync.Mutex
}

// Mutex exposes the lock's single backing mutex, for constructing a
// sync.Cond bound to it.
func (l *ThreeStageLock) Mutex() *sync.Mutex { return &l.mu }

// ContainerLock acquires the lock for a short, single-stage operation: a
// scanner reading Size, LastIdxTs, or advancing its cursor. The caller must
// call the returned func to release.
func (l *ThreeStageLock) ContainerLock() func() {
	l.mu.Lock()
	return l.mu.Unlock
}

// Staged is a publisher's handle on the lock as it lifts itself through the
// admission, commit, and notify stages in order. Skipping a stage, or
// operating on a Staged after it has been released, is a programming error
// and panics rather than silently corrupting lock state.
type Staged struct {
	parent *ThreeStageLock
	stage  int
}

// Acquire begins a publish, taking stage 1 (admission).
func (l *ThreeStageLock) Acquire() *Staged {
	l.mu.Lock()
	return &Staged{parent: l, stage: 1}
}

// AdvanceToStageTwo moves from admission to commit.
func (s *Staged) AdvanceToStageTwo() {
	if s.stage != 1 {
		panic(fmt.Sprintf("lock: AdvanceToStageTwo called from stage %d, want stage 1", s.stage))
	}
	s.stage = 2
}

// AdvanceToStageThree moves from commit to notify.
func (s *Staged) AdvanceToStageThree() {
	if s.stage != 2 {
		panic(fmt.Sprintf("lock: AdvanceToStageThree called from stage %d, want stage 2", s.stage))
	}
	s.stage = 3
}

// Release ends the publish, whatever stage it reached, and unlocks the
// underlying mutex exactly once.
func (s *Staged) Release() {
	if s.stage == 0 {
		panic("lock: Release called on an already-released Staged")
	}
	s.stage = 0
	s.parent.mu.Unlock()
}
