package codec

// BrokenValue stands in for a value whose wire payload failed to parse, but
// whose error must not fail the surrounding row until the caller actually
// reads it — currently only malformed Point payloads take this path
// (spec.md §4.2, §9). A type assertion against the expected rich-value type
// (e.g. values.Point) fails naturally on a *BrokenValue; callers that need
// the deferred error explicitly call Resolve.
type BrokenValue struct {
	Err error
}

func (b *BrokenValue) Error() string { return b.Err.Error() }

// Resolve returns v unchanged unless it is a *BrokenValue, in which case it
// returns the deferred parse error instead of the broken placeholder.
func Resolve(v any) (any, error) {
	if bv, ok := v.(*BrokenValue); ok {
		return nil, bv.Err
	}
	return v, nil
}
