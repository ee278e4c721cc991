package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar date abstraction (vacation math is day-granular)
// =============================================================================

// TimePoint is a calendar date. The underlying time is always midnight UTC so
// two TimePoints built from the same calendar day compare equal regardless of
// the location the caller observed them in.
type TimePoint struct {
	Time time.Time
}

// ISOLayout is the wire format for dates.
const ISOLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the calendar day of t as seen in t's own location.
func DateOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseISO parses a YYYY-MM-DD date.
func ParseISO(s string) (TimePoint, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic. Month and year steps clamp to the last day of the target month
// instead of overflowing into the next one: Jan 31 + 1 month is Feb 28 (or 29),
// Feb 29 + 1 year is Feb 28.
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddYears(n int) TimePoint { return tp.AddMonths(12 * n) }

func (tp TimePoint) AddMonths(n int) TimePoint {
	first := time.Date(tp.Year(), tp.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := tp.Day()
	if last := EndOfMonth(first.Year(), first.Month()).Day(); day > last {
		day = last
	}
	return NewTimePoint(first.Year(), first.Month(), day)
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.Time.Format(ISOLayout)
}

// =============================================================================
// CLOCK - Injected source of "today"
// =============================================================================

// Clock supplies the current calendar date. Anything that needs "now" takes a
// Clock so tests can pin the date.
type Clock interface {
	Today() TimePoint
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location. The location decides
// which calendar day "today" is; a nil location means UTC.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

func (c SystemClock) Today() TimePoint { return DateOf(c.Now()) }

// FixedClock always reports the same date.
type FixedClock struct {
	Date TimePoint
}

func (c FixedClock) Now() time.Time   { return c.Date.Time }
func (c FixedClock) Today() TimePoint { return c.Date }

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween counts calendar days from `from` to `to` (negative if to < from).
func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }

// YearsBetween counts complete anniversaries of `from` reached by `to`.
// It is 0 when to is before from's first anniversary and never negative.
func YearsBetween(from, to TimePoint) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if from.AddYears(years).After(to) {
		years--
	}
	return years
}

func EndOfMonth(year int, month time.Month) TimePoint {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return TimePoint{Time: t}
}
