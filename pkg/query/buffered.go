package query

import (
	"io"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/codec"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// NewBufferedReader builds a Reader over a fully parsed success document.
// Construction never fails outright: if doc carries errors, it instead
// returns a reader that raises that error from every accessor (spec.md
// §4.6). It does not look at the response Content-Type; Dispatch hands it
// every non-streaming response whatever its media type.
func NewBufferedReader(doc *wire.ResponseDocument, c *codec.Codec) Reader {
	if doc.Errors != nil {
		if len(doc.Errors) == 0 {
			return &failureReader{err: apierr.Protocol("Server replied an empty error response")}
		}
		first := doc.Errors[0]
		code := first.Code
		if code == "" {
			code = first.Error
		}
		return &failureReader{err: &apierr.ServerError{Code: code, Message: first.Message}}
	}
	return &bufferedReader{doc: doc, codec: c}
}

type bufferedReader struct {
	doc   *wire.ResponseDocument
	codec *codec.Codec
	pos   int
}

func (b *bufferedReader) Keys() ([]string, error) {
	if b.doc.Data == nil {
		return nil, nil
	}
	return b.doc.Data.Fields, nil
}

func (b *bufferedReader) Stream() RowIter {
	return &bufferedRowIter{reader: b}
}

func (b *bufferedReader) Meta() (values.Meta, error) {
	stats, err := b.codec.DecodeStats(b.doc.Counters)
	if err != nil {
		return values.Meta{}, err
	}
	profile, err := b.codec.DecodeProfile(b.doc.ProfiledQueryPlan)
	if err != nil {
		return values.Meta{}, err
	}
	plan, err := b.codec.DecodeProfile(b.doc.QueryPlan)
	if err != nil {
		return values.Meta{}, err
	}
	return values.Meta{
		Bookmarks:     b.doc.Bookmarks,
		Stats:         stats,
		Profile:       profile,
		Plan:          plan,
		Notifications: decodeNotifications(b.doc.Notifications),
	}, nil
}

// bufferedRowIter is destructive and single-pass over the parent's
// materialized rows (spec.md §4.6).
type bufferedRowIter struct {
	reader *bufferedReader
}

func (it *bufferedRowIter) Next() ([]any, error) {
	b := it.reader
	if b.doc.Data == nil || b.pos >= len(b.doc.Data.Values) {
		return nil, io.EOF
	}
	row := b.doc.Data.Values[b.pos]
	b.pos++
	out := make([]any, len(row))
	for i, wv := range row {
		dv, err := b.codec.DecodeValue(wv)
		if err != nil {
			return nil, err
		}
		out[i] = dv
	}
	return out, nil
}

// failureReader raises the same latched error from every accessor
// (spec.md §4.6, §7).
type failureReader struct {
	err error
}

func (f *failureReader) Keys() ([]string, error)    { return nil, f.err }
func (f *failureReader) Stream() RowIter            { return errorRowIter{f.err} }
func (f *failureReader) Meta() (values.Meta, error) { return values.Meta{}, f.err }

type errorRowIter struct{ err error }

func (e errorRowIter) Next() ([]any, error) { return nil, e.err }
