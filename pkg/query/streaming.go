package query

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/codec"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/stream"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// EventSource is the minimal pull surface StreamingReader needs; satisfied
// by *stream.EventReader.
type EventSource interface {
	Next() (wire.Event, error)
}

// StreamingReader wraps an event stream and resolves keys and summary
// lazily by consuming events in order (spec.md §4.7). Once a terminal
// error is latched, every accessor re-raises it.
type StreamingReader struct {
	events EventSource
	codec  *codec.Codec

	keys      []string
	keysKnown bool
	meta      values.Meta
	metaKnown bool
	err       error
}

// NewStreamingReader builds a StreamingReader over events, which must
// yield io.EOF once exhausted (stream.NewEventReader does this).
func NewStreamingReader(events EventSource, c *codec.Codec) *StreamingReader {
	return &StreamingReader{events: events, codec: c}
}

// pull fetches the next event, translating io.EOF and Error events into
// the reader's latched terminal error.
func (s *StreamingReader) pull() (wire.Event, error) {
	if s.err != nil {
		return wire.Event{}, s.err
	}
	ev, err := s.events.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return wire.Event{}, s.fail(apierr.Protocol("Closed streaming"))
		}
		return wire.Event{}, s.fail(err)
	}
	if ev.Kind == wire.EventError {
		var eb wire.ErrorBody
		if jerr := json.Unmarshal(ev.Body, &eb); jerr != nil {
			return wire.Event{}, s.fail(apierr.ProtocolWrap(jerr, "malformed Error body"))
		}
		if len(eb.Failures) == 0 {
			return wire.Event{}, s.fail(apierr.Protocol("Error event with no failures"))
		}
		f := eb.Failures[0]
		return wire.Event{}, s.fail(&apierr.ServerError{Code: f.Code, Message: f.Message})
	}
	return ev, nil
}

func (s *StreamingReader) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return s.err
}

func (s *StreamingReader) recordHeader(body json.RawMessage) error {
	var hb wire.HeaderBody
	if err := json.Unmarshal(body, &hb); err != nil {
		return s.fail(apierr.ProtocolWrap(err, "malformed Header body"))
	}
	if hb.Fields == nil {
		return s.fail(apierr.Protocol("Header event missing fields"))
	}
	s.keys, s.keysKnown = hb.Fields, true
	return nil
}

func (s *StreamingReader) decodeSummary(body json.RawMessage) (values.Meta, error) {
	var sb wire.SummaryBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return values.Meta{}, apierr.ProtocolWrap(err, "malformed Summary body")
	}
	stats, err := s.codec.DecodeStats(sb.Counters)
	if err != nil {
		return values.Meta{}, err
	}
	profile, err := s.codec.DecodeProfile(sb.ProfiledQueryPlan)
	if err != nil {
		return values.Meta{}, err
	}
	plan, err := s.codec.DecodeProfile(sb.QueryPlan)
	if err != nil {
		return values.Meta{}, err
	}
	return values.Meta{
		Bookmarks:     sb.Bookmarks,
		Stats:         stats,
		Profile:       profile,
		Plan:          plan,
		Notifications: decodeNotifications(sb.Notifications),
	}, nil
}

// Keys is idempotent: once resolved from a Header event it is cached
// (spec.md §4.7, §8 "idempotence").
func (s *StreamingReader) Keys() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.keysKnown {
		return s.keys, nil
	}
	ev, err := s.pull()
	if err != nil {
		return nil, err
	}
	if ev.Kind != wire.EventHeader {
		return nil, s.fail(apierr.Protocol("expected Header event, got %q", ev.Kind))
	}
	if err := s.recordHeader(ev.Body); err != nil {
		return nil, err
	}
	return s.keys, nil
}

// Meta pulls events until Summary; Header events along the way update
// keys, and Record events are tolerated and ignored — a caller invoking
// Meta commits to draining through Summary (spec.md §4.7, §9 open
// question).
func (s *StreamingReader) Meta() (values.Meta, error) {
	if s.err != nil {
		return values.Meta{}, s.err
	}
	if s.metaKnown {
		return s.meta, nil
	}
	for {
		ev, err := s.pull()
		if err != nil {
			return values.Meta{}, err
		}
		switch ev.Kind {
		case wire.EventHeader:
			if err := s.recordHeader(ev.Body); err != nil {
				return values.Meta{}, err
			}
		case wire.EventRecord:
			continue
		case wire.EventSummary:
			m, err := s.decodeSummary(ev.Body)
			if err != nil {
				return values.Meta{}, s.fail(err)
			}
			s.meta, s.metaKnown = m, true
			return s.meta, nil
		default:
			return values.Meta{}, s.fail(apierr.Protocol("unexpected event %q before Summary", ev.Kind))
		}
	}
}

// Stream returns a single-pass row iterator (spec.md §4.7).
func (s *StreamingReader) Stream() RowIter {
	return &streamingRowIter{reader: s}
}

type streamingRowIter struct {
	reader *StreamingReader
	done   bool
}

func (it *streamingRowIter) Next() ([]any, error) {
	s := it.reader
	if it.done {
		return nil, io.EOF
	}
	if s.err != nil {
		it.done = true
		return nil, s.err
	}
	for {
		ev, err := s.pull()
		if err != nil {
			it.done = true
			return nil, err
		}
		if !s.keysKnown && (ev.Kind == wire.EventRecord || ev.Kind == wire.EventSummary) {
			it.done = true
			return nil, s.fail(apierr.Protocol("expected Header before %q", ev.Kind))
		}
		switch ev.Kind {
		case wire.EventHeader:
			if err := s.recordHeader(ev.Body); err != nil {
				it.done = true
				return nil, err
			}
			continue
		case wire.EventRecord:
			var rb wire.RecordBody
			if err := json.Unmarshal(ev.Body, &rb); err != nil {
				it.done = true
				return nil, s.fail(apierr.ProtocolWrap(err, "malformed Record body"))
			}
			row := make([]any, len(rb))
			for i, wv := range rb {
				dv, err := s.codec.DecodeValue(wv)
				if err != nil {
					it.done = true
					return nil, s.fail(err)
				}
				row[i] = dv
			}
			return row, nil
		case wire.EventSummary:
			m, err := s.decodeSummary(ev.Body)
			it.done = true
			if err != nil {
				return nil, s.fail(err)
			}
			s.meta, s.metaKnown = m, true
			return nil, io.EOF
		default:
			it.done = true
			return nil, s.fail(apierr.Protocol("unexpected event %q in record stream", ev.Kind))
		}
	}
}

var _ EventSource = (*stream.EventReader)(nil)
