// Package query implements the two response readers — buffered and
// streaming — that expose field names, a lazy row iterator, and summary
// metadata while enforcing event ordering (spec.md §4.6, §4.7).
package query

import "github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"

// Reader is the surface both response readers expose.
type Reader interface {
	// Keys returns the result's field names. Idempotent.
	Keys() ([]string, error)
	// Stream returns a single-pass iterator over the decoded rows.
	Stream() RowIter
	// Meta returns bookmarks, update stats, plan, and notifications.
	// Idempotent.
	Meta() (values.Meta, error)
}

// RowIter yields decoded rows one at a time. Next returns io.EOF once
// exhausted.
type RowIter interface {
	Next() ([]any, error)
}
