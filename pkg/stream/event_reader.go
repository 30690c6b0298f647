package stream

import (
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// EventReader pulls wire.Events one at a time from a byte stream: BOM-aware
// UTF-8 decode, line framing, then event parsing (spec.md §4.9, §9
// "streaming pipeline"). Next returns io.EOF once the source and any
// buffered tail are exhausted.
type EventReader struct {
	src     io.Reader
	framer  LineFramer
	parser  EventParser
	pending []string
	buf     []byte
	flushed bool
}

// NewEventReader wraps r, stripping a leading UTF-8/UTF-16 byte-order mark
// if present.
func NewEventReader(r io.Reader) *EventReader {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &EventReader{
		src: transform.NewReader(r, decoder),
		buf: make([]byte, 4096),
	}
}

// Next returns the next parsed event, io.EOF when the stream is exhausted,
// or a *apierr.Error (PROTOCOL_ERROR for a malformed line, SERVICE_UNAVAILABLE
// for a read failure).
func (er *EventReader) Next() (wire.Event, error) {
	for {
		if len(er.pending) > 0 {
			line := er.pending[0]
			er.pending = er.pending[1:]
			return er.parser.Parse(line)
		}
		if er.flushed {
			return wire.Event{}, io.EOF
		}

		n, err := er.src.Read(er.buf)
		if n > 0 {
			er.pending = er.framer.Feed(string(er.buf[:n]))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				er.flushed = true
				er.pending = append(er.pending, er.framer.Flush()...)
				continue
			}
			return wire.Event{}, apierr.ServiceUnavailableErr("", err)
		}
	}
}
