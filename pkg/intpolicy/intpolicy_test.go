package intpolicy

import (
	"math/big"
	"testing"
)

// ─────────────────────────── ParseDecimal ────────────────────────────────

func TestPolicy_ParseDecimal(t *testing.T) {
	cases := []struct {
		name string
		mode Mode
		in   string
		want any
	}{
		{"lossless positive", Lossless, "9223372036854775807", int64(9223372036854775807)},
		{"lossless negative", Lossless, "-42", int64(-42)},
		{"number", Number, "42", float64(42)},
		{"bigint huge", BigInt, "123456789012345678901234567890", mustBig("123456789012345678901234567890")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := New(c.mode)
			got, err := p.ParseDecimal(c.in)
			if err != nil {
				t.Fatalf("ParseDecimal(%q) error: %v", c.in, err)
			}
			switch want := c.want.(type) {
			case *big.Int:
				gb, ok := got.(*big.Int)
				if !ok || gb.Cmp(want) != 0 {
					t.Errorf("ParseDecimal(%q) = %v (%T); want %v", c.in, got, got, want)
				}
			default:
				if got != c.want {
					t.Errorf("ParseDecimal(%q) = %v (%T); want %v", c.in, got, got, c.want)
				}
			}
		})
	}
}

func TestPolicy_ParseDecimal_Malformed(t *testing.T) {
	for _, mode := range []Mode{Lossless, BigInt, Number} {
		if _, err := New(mode).ParseDecimal("not-a-number"); err == nil {
			t.Errorf("mode %v: expected error for malformed integer", mode)
		}
	}
	if _, err := New(Lossless).ParseDecimal(""); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestPolicy_FromInt64_Uniformity(t *testing.T) {
	cases := []struct {
		mode Mode
		want any
	}{
		{Lossless, int64(12)},
		{Number, float64(12)},
	}
	for _, c := range cases {
		got := New(c.mode).FromInt64(12)
		if got != c.want {
			t.Errorf("FromInt64(12) under %v = %v (%T); want %v", c.mode, got, got, c.want)
		}
	}
	big12 := New(BigInt).FromInt64(12).(*big.Int)
	if big12.Cmp(big.NewInt(12)) != 0 {
		t.Errorf("FromInt64(12) under BigInt = %v; want 12", big12)
	}
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal: " + s)
	}
	return v
}
