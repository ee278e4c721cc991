package vacation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

func date(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

// =============================================================================
// REFERENCE SCENARIOS
// =============================================================================

func TestCalculatePeriods_OneYearIn(t *testing.T) {
	// GIVEN: Hired 2020-01-01, today 2021-06-15
	periods, err := vacation.CalculatePeriods(date(2020, time.January, 1), date(2021, time.June, 15))
	require.NoError(t, err)

	// THEN: The completed year and the current one, both pending
	require.Len(t, periods, 2)

	first := periods[0]
	assert.Equal(t, date(2020, time.January, 1), first.Start)
	assert.Equal(t, date(2021, time.January, 1), first.End)
	assert.Equal(t, date(2021, time.December, 1), first.UsageDeadline())
	assert.Equal(t, vacation.StatusPending, first.Status, "deadline not reached yet")
	assert.False(t, first.IsExpiring)

	current := periods[1]
	assert.Equal(t, date(2021, time.January, 1), current.Start)
	assert.Equal(t, date(2022, time.January, 1), current.End)
	assert.Equal(t, vacation.StatusPending, current.Status)
	assert.False(t, current.IsExpiring)
}

func TestCalculatePeriods_LongTenureExpiresOldPeriods(t *testing.T) {
	// GIVEN: Hired 2015-01-01, today 2023-01-01
	periods, err := vacation.CalculatePeriods(date(2015, time.January, 1), date(2023, time.January, 1))
	require.NoError(t, err)

	// THEN: Nine periods, the first expired with a 2016-12-01 deadline
	require.Len(t, periods, 9)
	assert.Equal(t, date(2016, time.December, 1), periods[0].UsageDeadline())
	assert.Equal(t, vacation.StatusExpired, periods[0].Status)

	// The period that ended today is not past yet
	assert.Equal(t, date(2023, time.January, 1), periods[7].End)
	assert.Equal(t, vacation.StatusPending, periods[7].Status)

	// The last one is the year in progress
	assert.Equal(t, date(2023, time.January, 1), periods[8].Start)
	assert.Equal(t, date(2024, time.January, 1), periods[8].End)
}

func TestCalculatePeriods_ExpiryWarning(t *testing.T) {
	hire := date(2022, time.January, 1)

	tests := []struct {
		name     string
		today    generic.TimePoint
		expiring bool
	}{
		// Deadline 2023-12-01, warning opens 2023-10-01 and is strict.
		{"before warning window", date(2023, time.September, 15), false},
		{"on warning start", date(2023, time.October, 1), false},
		{"day after warning start", date(2023, time.October, 2), true},
		{"inside warning window", date(2023, time.October, 15), true},
		{"on deadline", date(2023, time.December, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := vacation.CalculatePeriods(hire, tt.today)
			require.NoError(t, err)
			require.Len(t, periods, 2)

			first := periods[0]
			assert.Equal(t, date(2023, time.December, 1), first.UsageDeadline())
			assert.Equal(t, tt.expiring, first.IsExpiring)
			assert.Equal(t, vacation.StatusPending, first.Status)
		})
	}
}

func TestCalculatePeriods_HiredToday(t *testing.T) {
	today := date(2024, time.May, 10)

	periods, err := vacation.CalculatePeriods(today, today)
	require.NoError(t, err)

	// One period starting today and running a full year
	require.Len(t, periods, 1)
	assert.Equal(t, today, periods[0].Start)
	assert.Equal(t, date(2025, time.May, 10), periods[0].End)
	assert.Equal(t, vacation.StatusPending, periods[0].Status)
	assert.False(t, periods[0].IsExpiring)
}

func TestCalculatePeriods_ExpiredStillReportsExpiring(t *testing.T) {
	// GIVEN: A deadline that passed yesterday
	periods, err := vacation.CalculatePeriods(date(2020, time.January, 1), date(2021, time.December, 2))
	require.NoError(t, err)

	// THEN: Both flags are set; they are evaluated independently
	assert.Equal(t, vacation.StatusExpired, periods[0].Status)
	assert.True(t, periods[0].IsExpiring)
}

func TestCalculatePeriods_DeadlineDayIsNotExpired(t *testing.T) {
	periods, err := vacation.CalculatePeriods(date(2020, time.January, 1), date(2021, time.December, 1))
	require.NoError(t, err)

	assert.Equal(t, vacation.StatusPending, periods[0].Status)
}

func TestCalculatePeriods_HireDateInFuture(t *testing.T) {
	_, err := vacation.CalculatePeriods(date(2024, time.June, 2), date(2024, time.June, 1))

	assert.ErrorIs(t, err, vacation.ErrHireDateInFuture)
	assert.True(t, generic.IsClientError(err))
}

func TestCalculatePeriods_LeapDayHire(t *testing.T) {
	periods, err := vacation.CalculatePeriods(date(2020, time.February, 29), date(2021, time.March, 1))
	require.NoError(t, err)

	require.Len(t, periods, 2)
	assert.Equal(t, date(2021, time.February, 28), periods[0].End)
	assert.Equal(t, date(2022, time.January, 28), periods[0].UsageDeadline())
	assert.Equal(t, date(2022, time.February, 28), periods[1].End)

	// Feb 28 of a common year already completes the first year
	periods, err = vacation.CalculatePeriods(date(2020, time.February, 29), date(2021, time.February, 28))
	require.NoError(t, err)
	assert.Len(t, periods, 2)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestCalculatePeriods_Properties(t *testing.T) {
	hires := []generic.TimePoint{
		date(2015, time.January, 1),
		date(2018, time.August, 31),
		date(2020, time.February, 29),
		date(2023, time.December, 31),
	}
	todays := []generic.TimePoint{
		date(2024, time.January, 1),
		date(2024, time.February, 29),
		date(2024, time.July, 31),
		date(2025, time.March, 15),
	}

	for _, hire := range hires {
		for _, today := range todays {
			periods, err := vacation.CalculatePeriods(hire, today)
			require.NoError(t, err)

			// Count is completed years plus the year in progress
			require.Len(t, periods, generic.YearsBetween(hire, today)+1, "hire %s today %s", hire, today)

			for i, p := range periods {
				assert.Equal(t, hire.AddYears(i), p.Start)
				assert.Equal(t, hire.AddYears(i+1), p.End)
				assert.Equal(t, vacation.DaysPerPeriod, p.DaysAvailable)
				assert.Equal(t, vacation.PeriodRegular, p.Type)
				if i > 0 {
					assert.Equal(t, periods[i-1].End, p.Start, "no gaps")
				}

				// expired iff End + 11 months < today
				assert.Equal(t, p.End.AddMonths(11).Before(today), p.Status == vacation.StatusExpired)
				// expiring iff deadline - 2 months < today
				assert.Equal(t, p.UsageDeadline().AddMonths(-2).Before(today), p.IsExpiring)
			}

			// The last period is the one in progress
			last := periods[len(periods)-1]
			assert.True(t, last.Start.BeforeOrEqual(today))
			assert.True(t, last.End.After(today))
		}
	}
}

func TestCalculatePeriods_FreshSlicePerCall(t *testing.T) {
	hire, today := date(2020, time.January, 1), date(2021, time.June, 1)

	a, err := vacation.CalculatePeriods(hire, today)
	require.NoError(t, err)
	a[0].Status = vacation.StatusCompleted

	b, err := vacation.CalculatePeriods(hire, today)
	require.NoError(t, err)
	assert.Equal(t, vacation.StatusPending, b[0].Status)
}

func TestCalculatePeriods_Concurrent(t *testing.T) {
	hire, today := date(2010, time.March, 31), date(2024, time.October, 20)
	want, err := vacation.CalculatePeriods(hire, today)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := vacation.CalculatePeriods(hire, today)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

// =============================================================================
// CALCULATOR / FORMATTING
// =============================================================================

func TestCalculator_UsesClock(t *testing.T) {
	calc := vacation.NewCalculator(generic.FixedClock{Date: date(2021, time.June, 15)})

	periods, err := calc.Periods(date(2020, time.January, 1))
	require.NoError(t, err)
	assert.Len(t, periods, 2)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/03/2024", vacation.FormatDate(date(2024, time.March, 5)))
	assert.Equal(t, "31/12/1999", vacation.FormatDate(date(1999, time.December, 31)))
}

func TestParseDate(t *testing.T) {
	d, err := vacation.ParseDate("05/03/2024")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 5), d)

	_, err = vacation.ParseDate("2024-03-05")
	assert.Error(t, err)
}
