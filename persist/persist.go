// Package persist implements the append-only, in-process event log: a
// Persister wraps a Backend and an in-memory Container behind a
// three-stage lock, giving durable ordered publication and live,
// resumable scanning over the same sequence.
package persist

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/zyy1659949090/logpersist/container"
	"github.com/zyy1659949090/logpersist/entry"
	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/lock"
)

// Persister is the persisted log itself: a Backend for durability, a
// Container holding every record replayed or published so far, and a
// three-stage lock sequencing the two. E is the entry type; it may be a
// concrete struct or, for logs storing a closed sum of variant types, an
// entry.Polymorphic.
type Persister[E any] struct {
	be     Backend[E]
	cloner entry.Cloner[E]
	lock   lock.ThreeStageLock
	cond   *sync.Cond
	list   container.Container[E]
	log    *log.Entry
}

// New constructs a Persister over be, replaying its prior contents into
// memory before returning. cloner deep-copies an entry before it is stored,
// decoupling the Container's copy from the publisher's buffer; pass
// entry.Identity[E] for a value type with no indirection.
func New[E any](be Backend[E], cloner entry.Cloner[E]) (*Persister[E], error) {
	var p = &Persister[E]{
		be:     be,
		cloner: cloner,
		log:    log.WithField("component", "persist"),
	}
	p.cond = sync.NewCond(p.lock.Mutex())

	var count uint64
	if err := be.Replay(func(it idxts.IdxTs, e E) error {
		p.list.PushBack(container.LogRecord[E]{IdxTs: it, Value: e})
		count++
		return nil
	}); err != nil {
		return nil, errors.WithMessage(err, "replay")
	}
	p.log.WithField("records", count).Info("replay complete")
	return p, nil
}

// doPublishLocked runs the commit-then-notify half of a publish: the
// caller holds stage 1 (admission) and has already obtained it from
// be.Publish (Publish, PublishDerived, Emplace) or be.PublishReplayed
// (PublishReplayed).
func (p *Persister[E]) doPublishLocked(tsl *lock.Staged, it idxts.IdxTs, e E) {
	tsl.AdvanceToStageTwo()
	p.list.PushBack(container.LogRecord[E]{IdxTs: it, Value: p.cloner(e)})
	tsl.AdvanceToStageThree()
	p.cond.Broadcast()
}

// Publish durably appends e, assigning it the next IdxTs in sequence.
func (p *Persister[E]) Publish(e E) (idxts.IdxTs, error) {
	var tsl = p.lock.Acquire()
	defer tsl.Release()

	it, err := p.be.Publish(e)
	if err != nil {
		p.log.WithError(err).Error("backend publish failed")
		return idxts.IdxTs{}, err
	}
	p.doPublishLocked(tsl, it, e)
	return it, nil
}

// PublishDerived publishes a concrete variant value. In the source
// implementation this required an explicit clone-before-erasure step,
// since assigning a derived value through a base-class pointer or
// reference could slice it down to the base. Go interfaces never slice --
// a type assertion always recovers the full concrete value underneath one
// -- so PublishDerived here has the same body as Publish; it is kept as a
// distinct, named operation because callers distinguish "publish a fresh
// entry" from "publish a replayed one"
// (PublishReplayed) and from "construct in place" (Emplace), and
// PublishDerived completes that surface for a closed polymorphic entry
// type.
func (p *Persister[E]) PublishDerived(e E) (idxts.IdxTs, error) {
	return p.Publish(e)
}

// Emplace constructs an entry from ctor while holding the admission stage,
// then publishes it exactly as Publish would. Use this when constructing
// the entry itself should not race with another publisher: ctor runs after
// admission is granted, so at most one Emplace or Publish call runs its
// construction step at a time.
func (p *Persister[E]) Emplace(ctor func() (E, error)) (idxts.IdxTs, error) {
	var tsl = p.lock.Acquire()
	defer tsl.Release()

	e, err := ctor()
	if err != nil {
		return idxts.IdxTs{}, errors.WithMessage(err, "emplace: construct entry")
	}
	it, err := p.be.Publish(e)
	if err != nil {
		p.log.WithError(err).Error("backend publish failed")
		return idxts.IdxTs{}, err
	}
	p.doPublishLocked(tsl, it, e)
	return it, nil
}

// PublishReplayed durably appends e at a caller-assigned IdxTs, rather than
// minting a new one. It is the operation a downstream log uses to mirror
// an upstream persister's own IdxTs assignments.
func (p *Persister[E]) PublishReplayed(e E, at idxts.IdxTs) error {
	var tsl = p.lock.Acquire()
	defer tsl.Release()

	if err := p.be.PublishReplayed(e, at); err != nil {
		p.log.WithError(err).WithField("idxts", at).Error("backend publish-replayed failed")
		return err
	}
	p.doPublishLocked(tsl, at, e)
	return nil
}

// Size returns the number of records currently held, replayed plus
// published.
func (p *Persister[E]) Size() uint64 {
	var unlock = p.lock.ContainerLock()
	defer unlock()
	return p.list.Size()
}
