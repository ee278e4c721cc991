/*
calculator.go - Vacation period calculation

PURPOSE:
  Turns a hire date into the ordered list of anniversary accrual periods that
  have started by "today", each annotated with its status and expiry warning.

TIMELINE OF ONE PERIOD:

  Start ──── 1 year ────> End ──── 9 months ────> WarningStart ── 2 months ──> UsageDeadline
  (accrual)               (usage opens)           (IsExpiring)                 (expired after)

RULES:
  - One period per completed year plus the year in progress.
  - Status is expired when End and UsageDeadline are both before today,
    pending otherwise. Scheduled/completed need booked requests, see ledger.go.
  - IsExpiring is true once WarningStart is before today. It is evaluated
    independently of Status, so an expired period still reports IsExpiring.

PURITY:
  CalculatePeriods takes today as an argument and does no I/O. Calculator
  reads its Clock once per call.

SEE ALSO:
  - generic/period.go: AnniversaryPeriods
  - ledger.go: Status refinement from booked requests
*/
package vacation

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/vacation-engine/generic"
)

// DisplayLayout is the Brazilian day-month-year format.
const DisplayLayout = "02/01/2006"

// CalculatePeriods returns the accrual periods for hireDate as of today,
// oldest first. A hire date after today is rejected with ErrHireDateInFuture.
func CalculatePeriods(hireDate, today generic.TimePoint) ([]Period, error) {
	if hireDate.After(today) {
		return nil, fmt.Errorf("%w: hired %s, today %s", ErrHireDateInFuture, hireDate, today)
	}

	ranges := generic.AnniversaryPeriods(hireDate, today)
	periods := make([]Period, len(ranges))
	for i, r := range ranges {
		periods[i] = newPeriod(r, today)
	}
	return periods, nil
}

func newPeriod(r generic.Period, today generic.TimePoint) Period {
	p := Period{
		Start:         r.Start,
		End:           r.End,
		Type:          PeriodRegular,
		DaysAvailable: DaysPerPeriod,
		Status:        StatusPending,
	}

	isPast := p.End.Before(today)
	if isPast && p.UsageDeadline().Before(today) {
		p.Status = StatusExpired
	}
	p.IsExpiring = p.WarningStart().Before(today)
	return p
}

// FormatDate renders a date as DD/MM/YYYY regardless of locale.
func FormatDate(d generic.TimePoint) string {
	return d.Time.Format(DisplayLayout)
}

// ParseDate accepts DD/MM/YYYY.
func ParseDate(s string) (generic.TimePoint, error) {
	t, err := time.Parse(DisplayLayout, strings.TrimSpace(s))
	if err != nil {
		return generic.TimePoint{}, fmt.Errorf("parse date %q: expected DD/MM/YYYY", s)
	}
	return generic.DateOf(t), nil
}

// =============================================================================
// CALCULATOR - CalculatePeriods bound to a clock
// =============================================================================

type Calculator struct {
	Clock generic.Clock
}

func NewCalculator(clock generic.Clock) *Calculator {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &Calculator{Clock: clock}
}

// Periods calculates as of the clock's today.
func (c *Calculator) Periods(hireDate generic.TimePoint) ([]Period, error) {
	return CalculatePeriods(hireDate, c.Clock.Today())
}
