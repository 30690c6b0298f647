// Package scalars implements the free-function textual parsers for the
// protocol's scalar payload forms: dates, times, duration, and points. Each
// parser follows the concrete rules in spec.md §4.2 — a hand-scanned
// accumulator over the designator characters, the same technique the
// teacher's tc-output parser uses (token scanning with strconv conversions
// and defensive truncation, see pkg/parser.parseHeader/parseSentLine in the
// teacher repo).
package scalars

import (
	"strconv"
	"strings"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/apierr"
	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"
)

// ParseFloat parses a wire Float payload: a decimal string, optionally in
// exponent form, and including NaN/Infinity/-Infinity should the server ever
// emit them.
func ParseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, apierr.ProtocolWrap(err, "malformed float %q", raw)
	}
	return v, nil
}

// ParseDate parses "[±]YYYY-MM-DD". The optional leading sign is
// concatenated back onto the year before integer parsing.
func ParseDate(raw string) (values.Date, error) {
	s := raw
	sign := ""
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		sign, s = string(s[0]), s[1:]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return values.Date{}, apierr.Protocol("malformed date %q", raw)
	}
	year, err := strconv.Atoi(sign + parts[0])
	if err != nil {
		return values.Date{}, apierr.ProtocolWrap(err, "malformed date %q: bad year", raw)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return values.Date{}, apierr.ProtocolWrap(err, "malformed date %q: bad month", raw)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return values.Date{}, apierr.ProtocolWrap(err, "malformed date %q: bad day", raw)
	}
	return values.Date{Year: year, Month: month, Day: day}, nil
}

// ParseLocalTime parses "HH:MM:SS[.fffffffff]". A present nanosecond
// fragment is right-padded to 9 digits before integer parsing.
func ParseLocalTime(raw string) (values.LocalTime, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return values.LocalTime{}, apierr.Protocol("malformed local time %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return values.LocalTime{}, apierr.ProtocolWrap(err, "malformed local time %q: bad hour", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return values.LocalTime{}, apierr.ProtocolWrap(err, "malformed local time %q: bad minute", raw)
	}
	sec, nanos, err := splitSecondsFraction(parts[2])
	if err != nil {
		return values.LocalTime{}, apierr.ProtocolWrap(err, "malformed local time %q", raw)
	}
	return values.LocalTime{Hour: hour, Minute: minute, Second: sec, Nanosecond: nanos}, nil
}

// ParseTime parses "HH:MM:SS[.fffffffff](Z | ±HH[:MM] | nothing)". It
// returns a values.Time when an offset is present, or a values.LocalTime
// when it is absent — the caller must type-switch on the result, matching
// spec.md §3's invariant that an offset-less Time payload decodes as a
// LocalTime.
func ParseTime(raw string) (any, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return nil, apierr.Protocol("malformed time %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, apierr.ProtocolWrap(err, "malformed time %q: bad hour", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, apierr.ProtocolWrap(err, "malformed time %q: bad minute", raw)
	}

	third := parts[2]
	secPart := third
	nanoPart := ""
	hasOffset := false
	offsetSeconds := 0

	dot := strings.IndexByte(third, '.')
	searchIn := third
	if dot >= 0 {
		secPart = third[:dot]
		searchIn = third[dot+1:]
	}

	if markerIdx := findOffsetMarker(searchIn); markerIdx >= 0 {
		hasOffset = true
		if dot >= 0 {
			nanoPart = searchIn[:markerIdx]
		}
		offsetSeconds, err = parseOffsetSeconds(searchIn[markerIdx:])
		if err != nil {
			return nil, apierr.ProtocolWrap(err, "malformed time %q: bad offset", raw)
		}
	} else if dot >= 0 {
		nanoPart = searchIn
	}

	// Defensive against concatenated offset digits leaking into the
	// seconds fragment.
	secPart = truncate(secPart, 2)
	sec, err := strconv.Atoi(secPart)
	if err != nil {
		return nil, apierr.ProtocolWrap(err, "malformed time %q: bad seconds", raw)
	}

	nanos := 0
	if nanoPart != "" {
		n, err := strconv.Atoi(padRight9(nanoPart))
		if err != nil {
			return nil, apierr.ProtocolWrap(err, "malformed time %q: bad nanoseconds", raw)
		}
		nanos = n
	}

	lt := values.LocalTime{Hour: hour, Minute: minute, Second: sec, Nanosecond: nanos}
	if !hasOffset {
		return lt, nil
	}
	return values.Time{LocalTime: lt, OffsetSeconds: offsetSeconds}, nil
}

// ParseLocalDateTime parses "date 'T' localTime".
func ParseLocalDateTime(raw string) (values.LocalDateTime, error) {
	datePart, timePart, err := splitDateTime(raw)
	if err != nil {
		return values.LocalDateTime{}, err
	}
	d, err := ParseDate(datePart)
	if err != nil {
		return values.LocalDateTime{}, err
	}
	lt, err := ParseLocalTime(timePart)
	if err != nil {
		return values.LocalDateTime{}, err
	}
	return values.LocalDateTime{Date: d, LocalTime: lt}, nil
}

// ParseOffsetDateTime parses "date 'T' time". If the time portion carries an
// offset, the result is a values.DateTime; otherwise it is a
// values.LocalDateTime (spec.md §4.2).
func ParseOffsetDateTime(raw string) (any, error) {
	datePart, timePart, err := splitDateTime(raw)
	if err != nil {
		return nil, err
	}
	d, err := ParseDate(datePart)
	if err != nil {
		return nil, err
	}
	t, err := ParseTime(timePart)
	if err != nil {
		return nil, err
	}
	switch tv := t.(type) {
	case values.Time:
		return values.DateTime{Date: d, LocalTime: tv.LocalTime, HasOffset: true, OffsetSeconds: tv.OffsetSeconds}, nil
	case values.LocalTime:
		return values.LocalDateTime{Date: d, LocalTime: tv}, nil
	default:
		return nil, apierr.Protocol("malformed offset date-time %q", raw)
	}
}

// ParseZonedDateTime parses "offsetDateTime '[' zoneId ']'".
func ParseZonedDateTime(raw string) (values.DateTime, error) {
	idx := strings.IndexByte(raw, '[')
	if idx < 0 || !strings.HasSuffix(raw, "]") {
		return values.DateTime{}, apierr.Protocol("malformed zoned date-time %q", raw)
	}
	inner := raw[:idx]
	zoneID := raw[idx+1 : len(raw)-1]
	v, err := ParseOffsetDateTime(inner)
	if err != nil {
		return values.DateTime{}, err
	}
	switch tv := v.(type) {
	case values.DateTime:
		tv.ZoneID = zoneID
		return tv, nil
	case values.LocalDateTime:
		return values.DateTime{Date: tv.Date, LocalTime: tv.LocalTime, ZoneID: zoneID}, nil
	default:
		return values.DateTime{}, apierr.Protocol("malformed zoned date-time %q", raw)
	}
}

// ParsePoint parses "SRID=<n>;POINT (<x> <y>)" or
// "SRID=<n>;POINT Z (<x> <y> <z>)".
func ParsePoint(raw string) (values.Point, error) {
	parts := strings.Split(raw, ";")
	if len(parts) != 2 {
		return values.Point{}, apierr.Protocol("malformed point %q", raw)
	}
	sridPart, pointPart := parts[0], parts[1]
	if !strings.HasPrefix(sridPart, "SRID=") {
		return values.Point{}, apierr.Protocol("malformed point %q: missing SRID=", raw)
	}
	srid, err := strconv.ParseInt(strings.TrimPrefix(sridPart, "SRID="), 10, 64)
	if err != nil {
		return values.Point{}, apierr.ProtocolWrap(err, "malformed point %q: bad SRID", raw)
	}

	var is3D bool
	var coordsStr string
	switch {
	case strings.HasPrefix(pointPart, "POINT Z ("):
		is3D = true
		coordsStr = strings.TrimSuffix(strings.TrimPrefix(pointPart, "POINT Z ("), ")")
	case strings.HasPrefix(pointPart, "POINT ("):
		coordsStr = strings.TrimSuffix(strings.TrimPrefix(pointPart, "POINT ("), ")")
	default:
		return values.Point{}, apierr.Protocol("malformed point %q: expected POINT (...)", raw)
	}

	fields := strings.Fields(coordsStr)
	if (is3D && len(fields) != 3) || (!is3D && len(fields) != 2) {
		return values.Point{}, apierr.Protocol("malformed point %q: wrong coordinate count", raw)
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return values.Point{}, apierr.ProtocolWrap(err, "malformed point %q: bad x", raw)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return values.Point{}, apierr.ProtocolWrap(err, "malformed point %q: bad y", raw)
	}
	p := values.Point{SRID: srid, X: x, Y: y}
	if is3D {
		z, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return values.Point{}, apierr.ProtocolWrap(err, "malformed point %q: bad z", raw)
		}
		p.Z = &z
	}
	return p, nil
}

// ParseDuration parses the ISO-8601-flavored duration form
// "P<n>M<n>W<n>DT<n>H<n>M<n>.<n>S", accumulating digits across
// designators exactly per spec.md §4.2. A year designator 'Y' is not part
// of this form and is rejected as an unexpected character.
func ParseDuration(raw string) (values.Duration, error) {
	if len(raw) == 0 || raw[0] != 'P' {
		return values.Duration{}, apierr.Protocol("malformed duration %q: missing 'P'", raw)
	}
	tail := raw[1:]

	var months, weeks, days, hours, minutes, seconds, nanos int64
	inTime := false
	var acc strings.Builder

	for i := 0; i < len(tail); i++ {
		c := tail[i]

		switch c {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ',':
			acc.WriteByte(c)
			continue
		case '-':
			if acc.Len() == 0 {
				acc.WriteByte(c)
				continue
			}
		case 'T':
			inTime = true
			continue
		}

		switch c {
		case 'M':
			n, err := parseIntAcc(acc.String())
			if err != nil {
				return values.Duration{}, apierr.ProtocolWrap(err, "malformed duration %q", raw)
			}
			if inTime {
				minutes = n
			} else {
				months = n
			}
		case 'W':
			if inTime {
				return values.Duration{}, apierr.Protocol("malformed duration %q: 'W' in time part", raw)
			}
			n, err := parseIntAcc(acc.String())
			if err != nil {
				return values.Duration{}, apierr.ProtocolWrap(err, "malformed duration %q", raw)
			}
			weeks = n
		case 'D':
			if inTime {
				return values.Duration{}, apierr.Protocol("malformed duration %q: 'D' in time part", raw)
			}
			n, err := parseIntAcc(acc.String())
			if err != nil {
				return values.Duration{}, apierr.ProtocolWrap(err, "malformed duration %q", raw)
			}
			days = n
		case 'H':
			if !inTime {
				return values.Duration{}, apierr.Protocol("malformed duration %q: 'H' in date part", raw)
			}
			n, err := parseIntAcc(acc.String())
			if err != nil {
				return values.Duration{}, apierr.ProtocolWrap(err, "malformed duration %q", raw)
			}
			hours = n
		case 'S':
			if !inTime {
				return values.Duration{}, apierr.Protocol("malformed duration %q: 'S' in date part", raw)
			}
			s, n, err := parseSecondsAcc(acc.String())
			if err != nil {
				return values.Duration{}, apierr.ProtocolWrap(err, "malformed duration %q", raw)
			}
			seconds, nanos = s, n
		default:
			return values.Duration{}, apierr.Protocol("malformed duration %q: unexpected %q", raw, string(c))
		}
		acc.Reset()
	}

	return values.Duration{
		Months:      months,
		Days:        weeks*7 + days,
		Seconds:     hours*3600 + minutes*60 + seconds,
		Nanoseconds: nanos,
	}, nil
}

// --- helpers ---

func splitDateTime(raw string) (string, string, error) {
	idx := strings.IndexByte(raw, 'T')
	if idx < 0 {
		return "", "", apierr.Protocol("malformed date-time %q: missing 'T'", raw)
	}
	return raw[:idx], raw[idx+1:], nil
}

func splitSecondsFraction(frag string) (sec int, nanos int, err error) {
	dot := strings.IndexByte(frag, '.')
	secStr, nanoStr := frag, ""
	if dot >= 0 {
		secStr, nanoStr = frag[:dot], frag[dot+1:]
	}
	sec, err = strconv.Atoi(secStr)
	if err != nil {
		return 0, 0, err
	}
	if nanoStr == "" {
		return sec, 0, nil
	}
	n, err := strconv.Atoi(padRight9(nanoStr))
	if err != nil {
		return 0, 0, err
	}
	return sec, n, nil
}

func findOffsetMarker(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' || s[i] == 'Z' {
			return i
		}
	}
	return -1
}

func parseOffsetSeconds(s string) (int, error) {
	if s == "Z" {
		return 0, nil
	}
	if len(s) == 0 {
		return 0, apierr.Protocol("empty offset")
	}
	sign := 1
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, apierr.Protocol("offset %q missing sign", s)
	}
	rest := s[1:]
	hh, mm := rest, ""
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		hh, mm = rest[:idx], rest[idx+1:]
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	minutes := 0
	if mm != "" {
		minutes, err = strconv.Atoi(mm)
		if err != nil {
			return 0, err
		}
	}
	return sign * (hours*3600 + minutes*60), nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func padRight9(s string) string {
	for len(s) < 9 {
		s += "0"
	}
	return s[:9]
}

func parseIntAcc(s string) (int64, error) {
	if s == "" {
		return 0, apierr.Protocol("missing numeral before designator")
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseSecondsAcc(s string) (int64, int64, error) {
	if s == "" {
		return 0, 0, apierr.Protocol("missing numeral before 'S'")
	}
	sepIdx := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == ',' {
			sepIdx = i
			break
		}
	}
	if sepIdx < 0 {
		sec, err := strconv.ParseInt(s, 10, 64)
		return sec, 0, err
	}
	sec, err := strconv.ParseInt(s[:sepIdx], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	nanos, err := strconv.ParseInt(padRight9(s[sepIdx+1:]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return sec, nanos, nil
}
