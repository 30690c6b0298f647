package values

// Date is a calendar date with no time-of-day or zone component.
type Date struct {
	Year, Month, Day int
}

// LocalTime is a time-of-day with nanosecond precision and no UTC offset.
type LocalTime struct {
	Hour, Minute, Second, Nanosecond int
}

// Time is a time-of-day with a UTC offset but no calendar date or zone id.
type Time struct {
	LocalTime
	OffsetSeconds int
}

// LocalDateTime combines a Date and a LocalTime with no offset or zone.
type LocalDateTime struct {
	Date
	LocalTime
}

// DateTime combines a Date and LocalTime with an optional UTC offset and/or
// named zone id. HasOffset distinguishes "ambiguous, no offset known" (which
// the encoder rejects, per spec.md §4.3) from "offset is zero" (UTC).
type DateTime struct {
	Date
	LocalTime
	HasOffset     bool
	OffsetSeconds int
	ZoneID        string
}

// AsLocalDateTime drops the offset/zone, yielding the same kind of
// LocalDateTime the decoder produces when an OffsetDateTime payload omits
// its offset (spec.md §3 invariant). An offset-less ZonedDateTime payload
// still decodes to a DateTime carrying its zone id.
func (dt DateTime) AsLocalDateTime() LocalDateTime {
	return LocalDateTime{Date: dt.Date, LocalTime: dt.LocalTime}
}
