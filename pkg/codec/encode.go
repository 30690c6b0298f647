package codec

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/intpolicy"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/scalars"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/wire"
)

// EncodeValue dispatches on the dynamic shape of val, in the exact priority
// order from spec.md §4.3/§9: null, boolean, number, string, bigint,
// lossless integer, byte buffer, sequence, iterable, point, duration,
// temporals, DateTime, map. Graph entities and anything else unsupported
// are rejected with a protocol error. It is a plain function, not a Codec
// method — encoding needs no resolved integer policy, only FormatInt64.
func EncodeValue(val any) (wire.Value, error) {
	if val == nil {
		return rawValue(wire.TagNull, "null"), nil
	}
	if b, ok := val.(bool); ok {
		return encodeBool(b), nil
	}
	switch f := val.(type) {
	case float64:
		return encodeFloat(f), nil
	case float32:
		return encodeFloat(float64(f)), nil
	}
	if s, ok := val.(string); ok {
		return stringPayload(wire.TagString, s), nil
	}
	if bi, ok := val.(*big.Int); ok {
		return stringPayload(wire.TagInteger, bi.String()), nil
	}
	if isLosslessInteger(val) {
		return encodeLosslessInt(val)
	}
	if buf, ok := val.([]byte); ok {
		return stringPayload(wire.TagBase64, base64.StdEncoding.EncodeToString(buf)), nil
	}
	if seq, ok := val.([]any); ok {
		return encodeList(seq)
	}
	if ev, ok, err := encodeIterable(val); ok {
		return ev, err
	}
	switch p := val.(type) {
	case values.Point:
		return stringPayload(wire.TagPoint, p.String()), nil
	case *values.Point:
		return stringPayload(wire.TagPoint, p.String()), nil
	}
	switch d := val.(type) {
	case values.Duration:
		return stringPayload(wire.TagDuration, scalars.FormatDuration(d)), nil
	}
	switch t := val.(type) {
	case values.Date:
		return stringPayload(wire.TagDate, scalars.FormatDate(t)), nil
	case values.LocalTime:
		return stringPayload(wire.TagLocalTime, scalars.FormatLocalTime(t)), nil
	case values.Time:
		return stringPayload(wire.TagTime, scalars.FormatTime(t)), nil
	case values.LocalDateTime:
		return stringPayload(wire.TagLocalDateTime, scalars.FormatLocalDateTime(t)), nil
	case values.DateTime:
		return encodeDateTime(t)
	}
	switch val.(type) {
	case values.Node, *values.Node, values.Relationship, *values.Relationship,
		values.Path, *values.Path, values.Segment, *values.Segment:
		return wire.Value{}, apierr.Protocol("graph entities cannot be encoded as parameters")
	}
	if m, ok := val.(map[string]any); ok {
		return encodeMap(m)
	}
	return wire.Value{}, apierr.Protocol("unsupported value of type %T cannot be encoded", val)
}

func rawValue(tag wire.Tag, literal string) wire.Value {
	return wire.Value{Type: tag, Raw: json.RawMessage(literal)}
}

func stringPayload(tag wire.Tag, s string) wire.Value {
	raw, _ := json.Marshal(s)
	return wire.Value{Type: tag, Raw: raw}
}

func encodeBool(b bool) wire.Value {
	if b {
		return rawValue(wire.TagBoolean, "true")
	}
	return rawValue(wire.TagBoolean, "false")
}

func encodeFloat(f float64) wire.Value {
	var s string
	switch {
	case math.IsNaN(f):
		s = "NaN"
	case math.IsInf(f, 1):
		s = "Infinity"
	case math.IsInf(f, -1):
		s = "-Infinity"
	default:
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return stringPayload(wire.TagFloat, s)
}

func isLosslessInteger(val any) bool {
	switch val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func encodeLosslessInt(val any) (wire.Value, error) {
	var i64 int64
	switch x := val.(type) {
	case int:
		i64 = int64(x)
	case int8:
		i64 = int64(x)
	case int16:
		i64 = int64(x)
	case int32:
		i64 = int64(x)
	case int64:
		i64 = x
	case uint:
		i64 = int64(x)
	case uint8:
		i64 = int64(x)
	case uint16:
		i64 = int64(x)
	case uint32:
		i64 = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return wire.Value{}, apierr.Protocol("integer %d exceeds int64 range", x)
		}
		i64 = int64(x)
	default:
		return wire.Value{}, apierr.Protocol("not an integer: %T", val)
	}
	return stringPayload(wire.TagInteger, intpolicy.FormatInt64(i64)), nil
}

func encodeList(items []any) (wire.Value, error) {
	encoded := make([]wire.Value, len(items))
	for i, item := range items {
		ev, err := EncodeValue(item)
		if err != nil {
			return wire.Value{}, err
		}
		encoded[i] = ev
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return wire.Value{}, apierr.ProtocolWrap(err, "failed to encode list")
	}
	return wire.Value{Type: wire.TagList, Raw: raw}, nil
}

// encodeIterable materializes any non-[]any slice/array (e.g. []int,
// []string) and re-encodes it as a List — the "any iterable" clause of
// spec.md §4.3. []byte is excluded because it is matched earlier, as
// Base64 outranks the generic sequence form.
func encodeIterable(val any) (wire.Value, bool, error) {
	if _, ok := val.([]byte); ok {
		return wire.Value{}, false, nil
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return wire.Value{}, false, nil
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	v, err := encodeList(items)
	return v, true, err
}

func encodeMap(m map[string]any) (wire.Value, error) {
	out := make(map[string]wire.Value, len(m))
	for k, v := range m {
		ev, err := EncodeValue(v)
		if err != nil {
			return wire.Value{}, err
		}
		out[k] = ev
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return wire.Value{}, apierr.ProtocolWrap(err, "failed to encode map")
	}
	return wire.Value{Type: wire.TagMap, Raw: raw}, nil
}

func encodeDateTime(dt values.DateTime) (wire.Value, error) {
	if !dt.HasOffset {
		return wire.Value{}, apierr.Protocol("DateTime without a UTC offset is ambiguous and cannot be encoded")
	}
	if dt.ZoneID != "" {
		return stringPayload(wire.TagZonedDateTime, scalars.FormatZonedDateTime(dt)), nil
	}
	return stringPayload(wire.TagOffsetDateTime, scalars.FormatOffsetDateTime(dt)), nil
}
