package backend

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/persist"
)

// LegacyText is the tab-separated line format kept for reading logs
// written by older code: each line is "index\tmicros\tjson-payload\n". It
// is not used for new logs -- use FramedJSON instead -- but Replay still
// needs to read it, and this implementation can also append to it.
type LegacyText[E any] struct {
	path  string
	clock idxts.Clock
	codec Codec[E]
	file  *os.File
	last  idxts.IdxTs
}

// NewLegacyText returns a LegacyText backend reading from and appending to
// path, using codec to encode and decode entry payloads.
func NewLegacyText[E any](path string, clock idxts.Clock, codec Codec[E]) *LegacyText[E] {
	if clock == nil {
		clock = idxts.SystemClock{}
	}
	return &LegacyText[E]{path: path, clock: clock, codec: codec}
}

// NewLegacyTextJSON is NewLegacyText with the default JSON codec.
func NewLegacyTextJSON[E any](path string, clock idxts.Clock) *LegacyText[E] {
	return NewLegacyText[E](path, clock, JSONCodec[E]())
}

func (b *LegacyText[E]) Replay(push func(idxts.IdxTs, E) error) error {
	var flog = log.WithField("backend", "legacytext").WithField("path", b.path)

	f, err := os.Open(b.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		flog.Info("backend open: no existing log, creating")
		b.file, err = os.OpenFile(b.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		return err
	case err != nil:
		return err
	}
	defer f.Close()

	flog.Info("backend open: replaying existing log")

	var r = bufio.NewReader(f)
	var last idxts.IdxTs
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return err
			}
			if line != "" {
				return &persist.MalformedEntryError{Line: line}
			}
			break
		}
		line = strings.TrimSuffix(line, "\n")

		var parts = strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			return &persist.MalformedEntryError{Line: line}
		}
		index, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return &persist.MalformedEntryError{Line: line}
		}
		us, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return &persist.MalformedEntryError{Line: line}
		}
		if index != last.Index+1 {
			return &persist.InconsistentIndexError{Expected: last.Index + 1, Actual: index}
		}
		if us <= last.Micros {
			return &persist.InconsistentTimestampError{LastUs: last.Micros, NewUs: us}
		}
		e, err := b.codec.Unmarshal([]byte(parts[2]))
		if err != nil {
			return &persist.MalformedEntryError{Line: line}
		}
		var it = idxts.IdxTs{Index: index, Micros: us}
		if err := push(it, e); err != nil {
			return err
		}
		last = it
	}
	b.last = last

	b.file, err = os.OpenFile(b.path, os.O_APPEND|os.O_WRONLY, 0o644)
	return err
}

func (b *LegacyText[E]) Publish(e E) (idxts.IdxTs, error) {
	var us = b.clock.Now()
	if us <= b.last.Micros {
		return idxts.IdxTs{}, &persist.InconsistentTimestampError{LastUs: b.last.Micros, NewUs: us}
	}
	var it = idxts.IdxTs{Index: b.last.Index + 1, Micros: us}
	if err := b.writeRecord(it, e); err != nil {
		return idxts.IdxTs{}, err
	}
	b.last = it
	return it, nil
}

func (b *LegacyText[E]) PublishReplayed(e E, it idxts.IdxTs) error {
	if it.Index != b.last.Index+1 {
		return &persist.InconsistentIndexError{Expected: b.last.Index + 1, Actual: it.Index}
	}
	if it.Micros <= b.last.Micros {
		return &persist.InconsistentTimestampError{LastUs: b.last.Micros, NewUs: it.Micros}
	}
	if err := b.writeRecord(it, e); err != nil {
		return err
	}
	b.last = it
	return nil
}

func (b *LegacyText[E]) writeRecord(it idxts.IdxTs, e E) error {
	payload, err := b.codec.Marshal(e)
	if err != nil {
		return err
	}
	var line = fmt.Sprintf("%d\t%d\t%s\n", it.Index, it.Micros, payload)
	_, err = b.file.WriteString(line)
	return err
}
