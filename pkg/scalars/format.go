package scalars

import (
	"fmt"
	"strings"

	"github.com/neo4j-drivers/experimental-query-api-wrapper/pkg/values"
)

// FormatDate renders the canonical "[-]YYYY-MM-DD" form accepted by
// ParseDate.
func FormatDate(d values.Date) string {
	if d.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// FormatLocalTime renders "HH:MM:SS[.fffffffff]", the fraction present only
// when the nanosecond field is non-zero.
func FormatLocalTime(lt values.LocalTime) string {
	s := fmt.Sprintf("%02d:%02d:%02d", lt.Hour, lt.Minute, lt.Second)
	if lt.Nanosecond != 0 {
		s += "." + fmt.Sprintf("%09d", lt.Nanosecond)
	}
	return s
}

// FormatOffset renders a UTC offset as "Z" when zero, else "±HH:MM".
func FormatOffset(offsetSeconds int) string {
	if offsetSeconds == 0 {
		return "Z"
	}
	sign := "+"
	s := offsetSeconds
	if s < 0 {
		sign, s = "-", -s
	}
	return fmt.Sprintf("%s%02d:%02d", sign, s/3600, (s%3600)/60)
}

// FormatTime renders "HH:MM:SS[.fffffffff](Z | ±HH:MM)".
func FormatTime(t values.Time) string {
	return FormatLocalTime(t.LocalTime) + FormatOffset(t.OffsetSeconds)
}

// FormatLocalDateTime renders "date 'T' localTime".
func FormatLocalDateTime(ldt values.LocalDateTime) string {
	return FormatDate(ldt.Date) + "T" + FormatLocalTime(ldt.LocalTime)
}

// FormatOffsetDateTime renders "date 'T' time", dropping any zone id — the
// form ParseOffsetDateTime accepts.
func FormatOffsetDateTime(dt values.DateTime) string {
	return FormatDate(dt.Date) + "T" + FormatTime(values.Time{LocalTime: dt.LocalTime, OffsetSeconds: dt.OffsetSeconds})
}

// FormatZonedDateTime renders "offsetDateTime '[' zoneId ']'", the form
// ParseZonedDateTime accepts.
func FormatZonedDateTime(dt values.DateTime) string {
	return FormatOffsetDateTime(dt) + "[" + dt.ZoneID + "]"
}

// FormatDuration renders a canonical "P<months>M<days>DT<hours>H<minutes>M
// <seconds>[.nanos]S" form. It omits zero components (other than a final
// fallback for the all-zero duration) but always reproduces the same
// Months/Days/Seconds/Nanoseconds on a subsequent ParseDuration, since the
// seconds decomposition below is an exact base conversion of d.Seconds.
func FormatDuration(d values.Duration) string {
	var b strings.Builder
	b.WriteByte('P')
	if d.Months != 0 {
		fmt.Fprintf(&b, "%dM", d.Months)
	}
	if d.Days != 0 {
		fmt.Fprintf(&b, "%dD", d.Days)
	}

	hours := d.Seconds / 3600
	rem := d.Seconds % 3600
	minutes := rem / 60
	seconds := rem % 60
	hasTime := hours != 0 || minutes != 0 || seconds != 0 || d.Nanoseconds != 0

	if hasTime {
		b.WriteByte('T')
		if hours != 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if minutes != 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
		if seconds != 0 || d.Nanoseconds != 0 {
			if d.Nanoseconds != 0 {
				fmt.Fprintf(&b, "%d.%09dS", seconds, d.Nanoseconds)
			} else {
				fmt.Fprintf(&b, "%dS", seconds)
			}
		}
	}

	if b.Len() == 1 {
		b.WriteString("0D")
	}
	return b.String()
}
