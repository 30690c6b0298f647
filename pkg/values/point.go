package values

import (
	"strconv"
	"strings"
)

// Point is a spatial value: an SRID plus 2-D or 3-D coordinates. Z is nil
// for 2-D points.
type Point struct {
	SRID int64
	X, Y float64
	Z    *float64
}

// String renders the canonical wire form: "SRID=<n>;POINT (<x> <y>)" for a
// 2-D point, or "SRID=<n>;POINT Z (<x> <y> <z>)" when Z is present — the
// exact form pkg/scalars.ParsePoint accepts, so encode(decode(v)) round-trips.
func (p Point) String() string {
	var b strings.Builder
	b.WriteString("SRID=")
	b.WriteString(strconv.FormatInt(p.SRID, 10))
	b.WriteString(";POINT ")
	if p.Z != nil {
		b.WriteString("Z (")
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
		b.WriteByte(' ')
		b.WriteString(formatCoord(*p.Z))
		b.WriteByte(')')
	} else {
		b.WriteByte('(')
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
		b.WriteByte(')')
	}
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
