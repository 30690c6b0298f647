// Package stream implements the byte-to-event pipeline that backs the
// streaming response reader: a line framer (stateful partial-tail
// buffering across chunks), a stateless event parser, and an EventReader
// that composes both over a BOM-aware UTF-8 decoded byte source (spec.md
// §4.4, §4.5, §4.9).
package stream

import "strings"

// LineFramer turns an arbitrary sequence of string chunks into whole
// lines, buffering one partial trailing fragment across Feed calls
// (spec.md §4.4). The zero value is ready to use.
type LineFramer struct {
	tail string
}

// Feed splits chunk on '\n' and returns the whole lines it completes. A
// non-empty last fragment becomes the new buffered tail. A chunk is a
// no-op if empty. A piece that is empty and is both the first piece of
// this call and not preceded by any buffered tail is suppressed rather
// than emitted as a blank line — this is the one place this framer departs
// from plain split-and-reassemble (the leading-newline edge case of spec.md
// §4.4). Empty pieces later in the same chunk, as in "a\n\nb\n", are
// emitted as blank lines.
func (lf *LineFramer) Feed(chunk string) []string {
	if chunk == "" {
		return nil
	}

	parts := strings.Split(chunk, "\n")
	hadTail := lf.tail != ""
	if hadTail {
		parts[0] = lf.tail + parts[0]
		lf.tail = ""
	}

	last := parts[len(parts)-1]
	emitted := parts[:len(parts)-1]

	var out []string
	for i, p := range emitted {
		if i == 0 && !hadTail && p == "" {
			continue
		}
		out = append(out, p)
	}

	if last != "" {
		lf.tail = last
	}
	return out
}

// Flush returns the buffered tail as a final line, if any, and clears it.
// Used when the underlying byte source is exhausted.
func (lf *LineFramer) Flush() []string {
	if lf.tail == "" {
		return nil
	}
	out := []string{lf.tail}
	lf.tail = ""
	return out
}

// Tail reports the currently buffered partial line, for diagnostics and
// tests.
func (lf *LineFramer) Tail() string {
	return lf.tail
}
