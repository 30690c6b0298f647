package query

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/codec"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/intpolicy"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// fakeEventSource replays a canned sequence of events, then io.EOF.
type fakeEventSource struct {
	events []wire.Event
	pos    int
}

func (f *fakeEventSource) Next() (wire.Event, error) {
	if f.pos >= len(f.events) {
		return wire.Event{}, io.EOF
	}
	e := f.events[f.pos]
	f.pos++
	return e, nil
}

func mustEvent(t *testing.T, raw string) wire.Event {
	t.Helper()
	var e wire.Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("Unmarshal(%q): %v", raw, err)
	}
	return e
}

func TestStreamingReader_HeaderRecordSummary(t *testing.T) {
	// spec.md §8 scenario 5.
	src := &fakeEventSource{events: []wire.Event{
		mustEvent(t, `{"$event":"Header","_body":{"fields":["a","b"]}}`),
		mustEvent(t, `{"$event":"Record","_body":[{"$type":"Integer","_value":"1"},{"$type":"String","_value":"x"}]}`),
		mustEvent(t, `{"$event":"Summary","_body":{"bookmarks":["bm1"]}}`),
	}}
	r := NewStreamingReader(src, codec.New(intpolicy.Default()))

	keys, err := r.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys = %v", keys)
	}

	it := r.Stream()
	row, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(row) != 2 || row[0] != int64(1) || row[1] != "x" {
		t.Fatalf("row = %v", row)
	}
	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("Next after Summary = %v, want io.EOF", err)
	}

	meta, err := r.Meta()
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if len(meta.Bookmarks) != 1 || meta.Bookmarks[0] != "bm1" {
		t.Fatalf("Meta = %+v", meta)
	}
}

func TestStreamingReader_Idempotent(t *testing.T) {
	src := &fakeEventSource{events: []wire.Event{
		mustEvent(t, `{"$event":"Header","_body":{"fields":["a"]}}`),
		mustEvent(t, `{"$event":"Summary","_body":{}}`),
	}}
	r := NewStreamingReader(src, codec.New(intpolicy.Default()))

	k1, err := r.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	k2, err := r.Keys()
	if err != nil {
		t.Fatalf("Keys (2nd): %v", err)
	}
	if len(k1) != len(k2) || k1[0] != k2[0] {
		t.Fatalf("Keys not idempotent: %v vs %v", k1, k2)
	}

	it := r.Stream()
	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("Next = %v, want io.EOF", err)
	}

	m1, err := r.Meta()
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	m2, err := r.Meta()
	if err != nil {
		t.Fatalf("Meta (2nd): %v", err)
	}
	if len(m1.Bookmarks) != len(m2.Bookmarks) {
		t.Fatalf("Meta not idempotent: %+v vs %+v", m1, m2)
	}
}

func TestStreamingReader_RejectsSummaryBeforeHeader(t *testing.T) {
	src := &fakeEventSource{events: []wire.Event{
		mustEvent(t, `{"$event":"Summary","_body":{}}`),
	}}
	r := NewStreamingReader(src, codec.New(intpolicy.Default()))
	if _, err := r.Stream().Next(); err == nil {
		t.Fatal("expected error for Summary before Header")
	}
}

func TestStreamingReader_RejectsRecordBeforeHeader(t *testing.T) {
	src := &fakeEventSource{events: []wire.Event{
		mustEvent(t, `{"$event":"Record","_body":[]}`),
	}}
	r := NewStreamingReader(src, codec.New(intpolicy.Default()))
	if _, err := r.Stream().Next(); err == nil {
		t.Fatal("expected error for Record before Header")
	}
}

func TestStreamingReader_LatchesErrorEvent(t *testing.T) {
	src := &fakeEventSource{events: []wire.Event{
		mustEvent(t, `{"$event":"Header","_body":{"fields":["a"]}}`),
		mustEvent(t, `{"$event":"Error","_body":{"failures":[{"code":"Neo.ClientError.Statement.SyntaxError","message":"bad"}]}}`),
	}}
	r := NewStreamingReader(src, codec.New(intpolicy.Default()))
	if _, err := r.Keys(); err != nil {
		t.Fatalf("Keys: %v", err)
	}
	_, err1 := r.Stream().Next()
	if err1 == nil {
		t.Fatal("expected latched error")
	}
	_, err2 := r.Meta()
	if err2 == nil || err2.Error() != err1.Error() {
		t.Fatalf("latched error not re-raised consistently: %v vs %v", err1, err2)
	}
}

func TestBufferedReader_Success(t *testing.T) {
	raw := `{
		"data": {"fields":["a"], "values":[[{"$type":"Integer","_value":"7"}]]},
		"counters": {"nodesCreated":"1"},
		"bookmarks": ["bm1"]
	}`
	var doc wire.ResponseDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	r := NewBufferedReader(&doc, codec.New(intpolicy.Default()))
	keys, err := r.Keys()
	if err != nil || len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("Keys = %v, err = %v", keys, err)
	}
	row, err := r.Stream().Next()
	if err != nil || row[0] != int64(7) {
		t.Fatalf("row = %v, err = %v", row, err)
	}
	meta, err := r.Meta()
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if meta.Stats.NodesCreated != int64(1) {
		t.Fatalf("Stats.NodesCreated = %v", meta.Stats.NodesCreated)
	}
}

func TestBufferedReader_ErrorDocument(t *testing.T) {
	raw := `{"errors":[{"code":"Neo.ClientError.Statement.SyntaxError","message":"bad syntax"}]}`
	var doc wire.ResponseDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	r := NewBufferedReader(&doc, codec.New(intpolicy.Default()))
	if _, err := r.Keys(); err == nil {
		t.Fatal("expected error from Keys()")
	}
	if _, err := r.Stream().Next(); err == nil {
		t.Fatal("expected error from Stream().Next()")
	}
	if _, err := r.Meta(); err == nil {
		t.Fatal("expected error from Meta()")
	}
}

func TestBufferedReader_EmptyErrorList(t *testing.T) {
	raw := `{"errors":[]}`
	var doc wire.ResponseDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	r := NewBufferedReader(&doc, codec.New(intpolicy.Default()))
	_, err := r.Keys()
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *apierr.Error
	if !asProtocolError(err, &perr) || perr.Message != "Server replied an empty error response" {
		t.Fatalf("err = %v", err)
	}
}

func asProtocolError(err error, target **apierr.Error) bool {
	if e, ok := err.(*apierr.Error); ok {
		*target = e
		return true
	}
	return false
}
