package vacation_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// Hired 2020-01-01. On 2021-06-15 the first period is usable until 2021-12-01
// and the second is still accruing.
var (
	ledgerHire   = date(2020, time.January, 1)
	ledgerToday  = date(2021, time.June, 15)
	firstPeriod  = date(2020, time.January, 1)
	secondPeriod = date(2021, time.January, 1)
)

func vacationReq(id string, period, start, end generic.TimePoint, status vacation.RequestStatus) vacation.Request {
	return vacation.Request{
		ID:          generic.RequestID(id),
		EmployeeID:  "emp-1",
		PeriodStart: period,
		Start:       start,
		End:         end,
		Status:      status,
	}
}

func ledgerAt(t *testing.T, today generic.TimePoint, requests ...vacation.Request) []vacation.Summary {
	t.Helper()
	periods, err := vacation.CalculatePeriods(ledgerHire, today)
	require.NoError(t, err)
	return vacation.Reconcile(periods, requests, today)
}

// validate runs ValidateRequest the way the service does: the ledger is built
// from the stored requests, and the candidate is checked against it.
func validate(t *testing.T, today generic.TimePoint, candidate vacation.Request, stored ...vacation.Request) error {
	t.Helper()
	return vacation.ValidateRequest(candidate, ledgerAt(t, today, stored...), stored, today)
}

// =============================================================================
// RECONCILE
// =============================================================================

func TestReconcile_Balances(t *testing.T) {
	// GIVEN: 10 approved days, 15 pending, and a rejected request
	summaries := ledgerAt(t, ledgerToday,
		vacationReq("r1", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 10), vacation.RequestApproved),
		vacationReq("r2", firstPeriod, date(2021, time.August, 1), date(2021, time.August, 15), vacation.RequestPending),
		vacationReq("r3", firstPeriod, date(2021, time.September, 1), date(2021, time.September, 30), vacation.RequestRejected),
	)

	// THEN: Only approved and pending requests consume the balance
	require.Len(t, summaries, 2)
	first := summaries[0]
	assert.Equal(t, 10, first.DaysBooked.Int())
	assert.Equal(t, 15, first.DaysPending.Int())
	assert.Equal(t, 5, first.DaysRemaining.Int())
	assert.Len(t, first.Requests, 3)

	// Approved vacation ahead of today schedules the period
	assert.Equal(t, vacation.StatusScheduled, first.Status)

	second := summaries[1]
	assert.Equal(t, 30, second.DaysRemaining.Int())
	assert.Equal(t, vacation.StatusPending, second.Status)
}

func TestReconcile_CompletedWhenFullyTaken(t *testing.T) {
	// GIVEN: 30 days approved and already taken (Feb 1 to Mar 2, 2021)
	summaries := ledgerAt(t, ledgerToday,
		vacationReq("r1", firstPeriod, date(2021, time.February, 1), date(2021, time.March, 2), vacation.RequestApproved),
	)

	assert.Equal(t, 30, summaries[0].DaysBooked.Int())
	assert.True(t, summaries[0].DaysRemaining.IsZero())
	assert.Equal(t, vacation.StatusCompleted, summaries[0].Status)
}

func TestReconcile_ScheduledWhileLastFractionAhead(t *testing.T) {
	// GIVEN: All 30 days approved, the second fraction still ahead
	summaries := ledgerAt(t, ledgerToday,
		vacationReq("r1", firstPeriod, date(2021, time.February, 1), date(2021, time.February, 20), vacation.RequestApproved),
		vacationReq("r2", firstPeriod, date(2021, time.June, 15), date(2021, time.June, 24), vacation.RequestApproved),
	)

	assert.Equal(t, 30, summaries[0].DaysBooked.Int())
	assert.Equal(t, vacation.StatusScheduled, summaries[0].Status, "ends today or later")
}

func TestReconcile_PartiallyTakenStaysPending(t *testing.T) {
	summaries := ledgerAt(t, ledgerToday,
		vacationReq("r1", firstPeriod, date(2021, time.February, 1), date(2021, time.February, 15), vacation.RequestApproved),
	)

	assert.Equal(t, vacation.StatusPending, summaries[0].Status)
	assert.Equal(t, 15, summaries[0].DaysRemaining.Int())
}

func TestReconcile_ExpiredPeriodKeepsStatus(t *testing.T) {
	summaries := ledgerAt(t, date(2022, time.January, 10))

	assert.Equal(t, vacation.StatusExpired, summaries[0].Status)
	assert.True(t, summaries[0].IsExpiring, "carried from the calculator")
}

func TestReconcile_IgnoresUnknownPeriods(t *testing.T) {
	summaries := ledgerAt(t, ledgerToday,
		vacationReq("r1", date(2019, time.January, 1), date(2021, time.July, 1), date(2021, time.July, 10), vacation.RequestApproved),
	)

	for _, s := range summaries {
		assert.Empty(t, s.Requests)
		assert.Equal(t, 30, s.DaysRemaining.Int())
	}
}

func TestReconcile_SortsRequestsByStart(t *testing.T) {
	summaries := ledgerAt(t, ledgerToday,
		vacationReq("late", firstPeriod, date(2021, time.October, 1), date(2021, time.October, 10), vacation.RequestPending),
		vacationReq("early", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 10), vacation.RequestPending),
	)

	require.Len(t, summaries[0].Requests, 2)
	assert.Equal(t, generic.RequestID("early"), summaries[0].Requests[0].ID)
}

// =============================================================================
// BOOKING RULES
// =============================================================================

func TestValidateRequest_Accepts(t *testing.T) {
	req := vacationReq("new", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 30), vacation.RequestPending)

	assert.NoError(t, validate(t, ledgerToday, req))
}

func TestValidateRequest_EndBeforeStart(t *testing.T) {
	req := vacationReq("new", firstPeriod, date(2021, time.July, 10), date(2021, time.July, 1), vacation.RequestPending)

	assert.ErrorIs(t, validate(t, ledgerToday, req), generic.ErrInvalidPeriod)
}

func TestValidateRequest_UnknownPeriod(t *testing.T) {
	req := vacationReq("new", date(2020, time.March, 1), date(2021, time.July, 1), date(2021, time.July, 30), vacation.RequestPending)

	assert.ErrorIs(t, validate(t, ledgerToday, req), vacation.ErrPeriodNotFound)
}

func TestValidateRequest_AccrualIncomplete(t *testing.T) {
	// GIVEN: The second period only becomes usable on 2022-01-01
	req := vacationReq("new", secondPeriod, date(2021, time.July, 1), date(2021, time.July, 30), vacation.RequestPending)

	assert.ErrorIs(t, validate(t, ledgerToday, req), vacation.ErrAccrualIncomplete)
}

func TestValidateRequest_StartInPast(t *testing.T) {
	// GIVEN: The first period is usable, but February 2021 is behind today
	req := vacationReq("new", firstPeriod, date(2021, time.February, 1), date(2021, time.February, 14), vacation.RequestPending)

	err := validate(t, ledgerToday, req)
	assert.ErrorIs(t, err, vacation.ErrStartInPast)
	assert.Contains(t, err.Error(), "01/02/2021")

	// Starting today is still bookable
	req = vacationReq("new", firstPeriod, ledgerToday, ledgerToday.AddDays(13), vacation.RequestPending)
	assert.NoError(t, validate(t, ledgerToday, req))
}

func TestValidateRequest_PastDeadline(t *testing.T) {
	// GIVEN: The first period must be used by 2021-12-01
	req := vacationReq("new", firstPeriod, date(2021, time.November, 20), date(2021, time.December, 5), vacation.RequestPending)

	err := validate(t, ledgerToday, req)
	assert.ErrorIs(t, err, vacation.ErrPastDeadline)
	assert.Contains(t, err.Error(), "01/12/2021")
}

func TestValidateRequest_EndingOnDeadline(t *testing.T) {
	req := vacationReq("new", firstPeriod, date(2021, time.November, 2), date(2021, time.December, 1), vacation.RequestPending)

	assert.NoError(t, validate(t, ledgerToday, req))
}

func TestValidateRequest_ExpiredPeriod(t *testing.T) {
	req := vacationReq("new", firstPeriod, date(2022, time.February, 1), date(2022, time.February, 10), vacation.RequestPending)

	assert.ErrorIs(t, validate(t, date(2022, time.January, 10), req), vacation.ErrPeriodExpired)
}

func TestValidateRequest_Overlap(t *testing.T) {
	existing := vacationReq("r1", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 10), vacation.RequestApproved)
	req := vacationReq("new", firstPeriod, date(2021, time.July, 10), date(2021, time.July, 24), vacation.RequestPending)

	err := validate(t, ledgerToday, req, existing)
	assert.ErrorIs(t, err, vacation.ErrOverlap)
	assert.ErrorIs(t, err, generic.ErrRuleViolation)
}

func TestValidateRequest_OverlapAcrossPeriods(t *testing.T) {
	// GIVEN: A request against another period covering the same days
	existing := vacationReq("r1", date(2019, time.January, 1), date(2021, time.July, 1), date(2021, time.July, 10), vacation.RequestPending)
	req := vacationReq("new", firstPeriod, date(2021, time.July, 5), date(2021, time.July, 19), vacation.RequestPending)

	assert.ErrorIs(t, validate(t, ledgerToday, req, existing), vacation.ErrOverlap)
}

func TestValidateRequest_CanceledDoesNotBlock(t *testing.T) {
	canceled := vacationReq("r1", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 30), vacation.RequestCanceled)
	req := vacationReq("new", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 30), vacation.RequestPending)

	assert.NoError(t, validate(t, ledgerToday, req, canceled))
}

func TestValidateRequest_InsufficientBalance(t *testing.T) {
	// GIVEN: 20 of 30 days already approved
	existing := vacationReq("r1", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 20), vacation.RequestApproved)
	req := vacationReq("new", firstPeriod, date(2021, time.August, 1), date(2021, time.August, 15), vacation.RequestPending)

	err := validate(t, ledgerToday, req, existing)

	var balErr *generic.InsufficientBalanceError
	require.ErrorAs(t, err, &balErr)
	assert.Equal(t, 10, balErr.Available.Int())
	assert.Equal(t, 15, balErr.Requested.Int())
	assert.ErrorIs(t, err, generic.ErrInsufficientBalance)
}

func TestValidateRequest_RevalidatingStoredRequest(t *testing.T) {
	// GIVEN: A pending 30-day request that is already stored
	stored := vacationReq("r1", firstPeriod, date(2021, time.July, 1), date(2021, time.July, 30), vacation.RequestPending)

	// THEN: It does not collide with itself or with its own days
	assert.NoError(t, validate(t, ledgerToday, stored, stored))
}

func TestValidateRequest_Fractions(t *testing.T) {
	p := firstPeriod
	tests := []struct {
		name     string
		existing []int // days of approved requests already in the period
		days     int
		wantErr  bool
	}{
		{"single full block", nil, 30, false},
		{"main fraction first", nil, 14, false},
		{"short first fraction leaves room for main", nil, 5, false},
		{"below minimum", nil, 4, true},
		{"second short fraction still leaves 14", []int{5}, 10, false},
		{"second fraction leaves no room for main", []int{5}, 12, true},
		{"third fraction without main", []int{10, 10}, 5, true},
		{"third fraction with main", []int{14, 5}, 5, false},
		{"fourth fraction", []int{14, 5, 5}, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Existing fractions are laid out back to back from July 1.
			var stored []vacation.Request
			start := date(2021, time.July, 1)
			for i, d := range tt.existing {
				end := start.AddDays(d - 1)
				stored = append(stored, vacationReq(fmt.Sprintf("r%d", i), p, start, end, vacation.RequestApproved))
				start = end.AddDays(2)
			}
			start = date(2021, time.October, 1)
			req := vacationReq("new", p, start, start.AddDays(tt.days-1), vacation.RequestPending)

			err := validate(t, ledgerToday, req, stored...)
			if tt.wantErr {
				assert.ErrorIs(t, err, vacation.ErrFraction)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
