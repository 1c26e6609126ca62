package backend

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/zyy1659949090/logpersist/idxts"
	"github.com/zyy1659949090/logpersist/persist"
)

// FramedJSON is the line format used for new logs: each line is
// "json(IdxTs)\tjson(payload)\n". Unlike LegacyText it stores the IdxTs
// itself as JSON, so the on-disk header carries exactly the same shape as
// the in-memory type.
type FramedJSON[E any] struct {
	path  string
	clock idxts.Clock
	codec Codec[E]
	file  *os.File
	last  idxts.IdxTs
}

// NewFramedJSON returns a FramedJSON backend reading from and appending to
// path, using codec to encode and decode entry payloads.
func NewFramedJSON[E any](path string, clock idxts.Clock, codec Codec[E]) *FramedJSON[E] {
	if clock == nil {
		clock = idxts.SystemClock{}
	}
	return &FramedJSON[E]{path: path, clock: clock, codec: codec}
}

// NewFramedJSONCodec is NewFramedJSON with the default JSON codec.
func NewFramedJSONCodec[E any](path string, clock idxts.Clock) *FramedJSON[E] {
	return NewFramedJSON[E](path, clock, JSONCodec[E]())
}

func (b *FramedJSON[E]) Replay(push func(idxts.IdxTs, E) error) error {
	var flog = log.WithField("backend", "framedjson").WithField("path", b.path)

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

		var tab = strings.IndexByte(line, '\t')
		if tab < 0 {
			return &persist.MalformedEntryError{Line: line}
		}
		var it idxts.IdxTs
		if err := json.Unmarshal([]byte(line[:tab]), &it); err != nil {
			return &persist.MalformedEntryError{Line: line}
		}
		if it.Index != last.Index+1 {
			return &persist.InconsistentIndexError{Expected: last.Index + 1, Actual: it.Index}
		}
		if it.Micros <= last.Micros {
			return &persist.InconsistentTimestampError{LastUs: last.Micros, NewUs: it.Micros}
		}
		e, err := b.codec.Unmarshal([]byte(line[tab+1:]))
		if err != nil {
			return &persist.MalformedEntryError{Line: line}
		}
		if err := push(it, e); err != nil {
			return err
		}
		last = it
	}
	b.last = last

	b.file, err = os.OpenFile(b.path, os.O_APPEND|os.O_WRONLY, 0o644)
	return err
}

func (b *FramedJSON[E]) Publish(e E) (idxts.IdxTs, error) {
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

func (b *FramedJSON[E]) PublishReplayed(e E, it idxts.IdxTs) error {
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

func (b *FramedJSON[E]) writeRecord(it idxts.IdxTs, e E) error {
	hdr, err := json.Marshal(it)
	if err != nil {
		return err
	}
	payload, err := b.codec.Marshal(e)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.Write(hdr)
	buf.WriteByte('\t')
	buf.Write(payload)
	buf.WriteByte('\n')

	_, err = b.file.Write(buf.Bytes())
	return err
}
