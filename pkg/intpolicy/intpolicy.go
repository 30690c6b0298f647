// Package intpolicy resolves the caller-selectable integer representation used
// everywhere a wire Integer value is produced: lossless 64-bit, arbitrary
// precision, or float64. The policy is picked once at codec construction and
// applied by pkg/codec to top-level Integer values, counters and plan
// numbers, so those all present the same Go type. Temporal sub-fields
// produced by pkg/scalars are plain Go ints and do not pass through the
// policy.
package intpolicy

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Mode selects the numeric representation produced for a wire Integer.
type Mode int

const (
	// Lossless keeps 64-bit precision. Unlike JavaScript's float64-backed
	// number type, Go's int64 is already lossless across the full wire
	// range, so this mode needs no wrapper type.
	Lossless Mode = iota
	// BigInt produces arbitrary-precision integers via math/big.
	BigInt
	// Number produces float64, matching JS Number semantics (may lose
	// precision above 2^53).
	Number
)

func (m Mode) String() string {
	switch m {
	case Lossless:
		return "lossless"
	case BigInt:
		return "bigint"
	case Number:
		return "number"
	default:
		return fmt.Sprintf("intpolicy.Mode(%d)", int(m))
	}
}

// Policy converts decimal strings and machine int64s into the mode's
// representation. The zero value is the Lossless policy.
type Policy struct {
	mode Mode
}

// New returns a Policy fixed to mode.
func New(mode Mode) Policy {
	return Policy{mode: mode}
}

// Default is the driver default: LosslessInteger.
func Default() Policy {
	return New(Lossless)
}

// Mode reports the policy's resolved mode.
func (p Policy) Mode() Mode {
	return p.mode
}

// ParseDecimal parses a wire Integer payload (always a decimal string, never
// a JSON number, so 64-bit range survives JSON round-tripping) into the
// policy's representation.
func (p Policy) ParseDecimal(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty integer payload")
	}
	switch p.mode {
	case BigInt:
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("malformed integer %q", raw)
		}
		return v, nil
	case Number:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integer %q: %w", raw, err)
		}
		return v, nil
	default: // Lossless
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integer %q: %w", raw, err)
		}
		return v, nil
	}
}

// FromInt64 converts an already-parsed machine integer into the policy's
// representation. pkg/codec uses it for counter and plan fields absent from
// the wire (reported as 0); temporal sub-fields do not go through it.
func (p Policy) FromInt64(v int64) any {
	switch p.mode {
	case BigInt:
		return big.NewInt(v)
	case Number:
		return float64(v)
	default:
		return v
	}
}

// FormatInt64 renders v back to the canonical decimal string used on the
// wire, regardless of mode — used by the encoder, which always emits
// Integer as a decimal string irrespective of which policy decoded it.
func FormatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}
