package generic

// =============================================================================
// PERIOD - A span of calendar days
// =============================================================================

// Period is a date range [Start, End]. Whether End itself belongs to the range
// is up to the caller: anniversary periods share their boundary day with the
// next period, request periods are inclusive on both ends.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether two inclusive periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Days returns the number of calendar days in the inclusive period.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Validate rejects periods that end before they start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// ANNIVERSARY PERIODS
// =============================================================================

// AnniversaryPeriod returns the n-th year anchored on anchor (n starts at 1):
// [anchor + (n-1) years, anchor + n years].
func AnniversaryPeriod(anchor TimePoint, n int) Period {
	return Period{
		Start: anchor.AddYears(n - 1),
		End:   anchor.AddYears(n),
	}
}

// AnniversaryPeriods returns every anniversary year that has started by asOf,
// oldest first. The year in progress is included, so the result always has
// YearsBetween(anchor, asOf)+1 entries when asOf is not before anchor.
func AnniversaryPeriods(anchor, asOf TimePoint) []Period {
	if asOf.Before(anchor) {
		return nil
	}
	count := YearsBetween(anchor, asOf) + 1
	periods := make([]Period, 0, count)
	for i := 1; i <= count; i++ {
		periods = append(periods, AnniversaryPeriod(anchor, i))
	}
	return periods
}
