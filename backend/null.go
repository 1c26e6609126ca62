package backend

import (
	log "github.com/sirupsen/logrus"

	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/persist"
)

// Null is the count-only backend: it keeps no durable representation at
// all and Replay always starts from an empty log. Publish does not check
// timestamp monotonicity against a previous value, since it keeps none to
// compare against -- the same gap the source implementation's DevNull
// backend has.
type Null[E any] struct {
	clock idxts.Clock
	count uint64
}

// NewNull returns a Null backend using clock to stamp published entries.
func NewNull[E any](clock idxts.Clock) *Null[E] {
	if clock == nil {
		clock = idxts.SystemClock{}
	}
	return &Null[E]{clock: clock}
}

func (b *Null[E]) Replay(push func(idxts.IdxTs, E) error) error {
	log.WithField("backend", "null").Debug("backend open (no durable state to replay)")
	return nil
}

func (b *Null[E]) Publish(e E) (idxts.IdxTs, error) {
	var it = idxts.IdxTs{Index: b.count + 1, Micros: b.clock.Now()}
	b.count++
	return it, nil
}

func (b *Null[E]) PublishReplayed(e E, at idxts.IdxTs) error {
	if at.Index != b.count+1 {
		return &persist.InconsistentIndexError{Expected: b.count + 1, Actual: at.Index}
	}
	b.count++
	return nil
}
