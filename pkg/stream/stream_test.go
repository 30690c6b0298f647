package stream

import (
	"strings"
	"testing"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

func TestLineFramer_ChunkBoundaryExample(t *testing.T) {
	// spec.md §8 scenario 6.
	var lf LineFramer
	var got []string
	got = append(got, lf.Feed("hello\nwor")...)
	got = append(got, lf.Feed("ld\n")...)
	got = append(got, lf.Feed("!")...)

	want := []string{"hello", "world"}
	if !equalStrings(got, want) {
		t.Fatalf("emitted = %v, want %v", got, want)
	}
	if lf.Tail() != "!" {
		t.Fatalf("Tail() = %q, want \"!\"", lf.Tail())
	}
}

func TestLineFramer_ReassemblyIdentity(t *testing.T) {
	text := "alpha\nbeta\ngamma\n"
	want := []string{"alpha", "beta", "gamma"}

	chunkings := [][]string{
		{text},
		{"alpha\nbeta\n", "gamma\n"},
		{"al", "pha\nbe", "ta\ngamma", "\n"},
		{"a", "l", "p", "h", "a", "\n", "b", "e", "t", "a", "\n", "g", "a", "m", "m", "a", "\n"},
	}

	for _, chunks := range chunkings {
		var lf LineFramer
		var got []string
		for _, c := range chunks {
			got = append(got, lf.Feed(c)...)
		}
		got = append(got, lf.Flush()...)
		if !equalStrings(got, want) {
			t.Fatalf("chunks %v: emitted = %v, want %v", chunks, got, want)
		}
	}
}

func TestLineFramer_EmptyChunkIsNoop(t *testing.T) {
	var lf LineFramer
	if got := lf.Feed(""); got != nil {
		t.Fatalf("Feed(\"\") = %v, want nil", got)
	}
}

func TestLineFramer_LeadingBlankLineSuppressedWithoutTail(t *testing.T) {
	// A chunk that starts with a newline, with nothing buffered, does not
	// emit a spurious leading blank line (spec.md §4.4 edge case).
	var lf LineFramer
	got := lf.Feed("\nabc\n")
	want := []string{"abc"}
	if !equalStrings(got, want) {
		t.Fatalf("emitted = %v, want %v", got, want)
	}
}

func TestLineFramer_LoneNewlineFlushesPendingTail(t *testing.T) {
	var lf LineFramer
	lf.Feed("abc") // buffers "abc" as tail
	got := lf.Feed("\n")
	want := []string{"abc"}
	if !equalStrings(got, want) {
		t.Fatalf("emitted = %v, want %v", got, want)
	}
}

func TestEventReader_HeaderRecordSummary(t *testing.T) {
	// spec.md §8 scenario 5.
	body := strings.Join([]string{
		`{"$event":"Header","_body":{"fields":["a","b"]}}`,
		`{"$event":"Record","_body":[{"$type":"Integer","_value":"1"},{"$type":"String","_value":"x"}]}`,
		`{"$event":"Summary","_body":{"bookmarks":["bm1"]}}`,
		"",
	}, "\n")

	er := NewEventReader(strings.NewReader(body))

	e1, err := er.Next()
	if err != nil || e1.Kind != wire.EventHeader {
		t.Fatalf("event 1 = %+v, err = %v", e1, err)
	}
	e2, err := er.Next()
	if err != nil || e2.Kind != wire.EventRecord {
		t.Fatalf("event 2 = %+v, err = %v", e2, err)
	}
	e3, err := er.Next()
	if err != nil || e3.Kind != wire.EventSummary {
		t.Fatalf("event 3 = %+v, err = %v", e3, err)
	}
	if _, err := er.Next(); err == nil {
		t.Fatal("expected io.EOF after the last event")
	}
}

func TestEventReader_StripsBOM(t *testing.T) {
	withBOM := "\xEF\xBB\xBF" + `{"$event":"Header","_body":{"fields":[]}}` + "\n"
	er := NewEventReader(strings.NewReader(withBOM))
	e, err := er.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if e.Kind != wire.EventHeader {
		t.Fatalf("Kind = %q, want Header", e.Kind)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
