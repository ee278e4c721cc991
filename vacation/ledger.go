/*
ledger.go - Booked vacation against accrual periods

PURPOSE:
  The calculator only knows dates. Once leave requests exist, a period can also
  be scheduled (approved days still ahead) or completed (all 30 days taken).
  Reconcile folds an employee's requests into the calculated periods, and
  ValidateRequest decides whether a new request can be booked.

BALANCE PER PERIOD:
  booked    = days of approved requests
  pending   = days of pending requests
  remaining = DaysAvailable - booked - pending

STATUS REFINEMENT:
  booked >= DaysAvailable and every approved request ended  -> completed
  any approved request ending today or later                -> scheduled
  otherwise                                                  -> calculator status

FRACTIONING (CLT art. 134):
  At most MaxFractions requests per period, each at least MinFractionDays,
  and one of them at least MainFractionDays.

SEE ALSO:
  - calculator.go: Period calculation
  - service.go: Uses ValidateRequest before saving
*/
package vacation

import (
	"fmt"
	"sort"

	"github.com/warp/vacation-engine/generic"
)

const (
	MaxFractions     = 3
	MinFractionDays  = 5
	MainFractionDays = 14
)

// Summary is a period with its booking balance.
type Summary struct {
	Period
	DaysBooked    generic.Amount
	DaysPending   generic.Amount
	DaysRemaining generic.Amount
	Requests      []Request
}

// Reconcile attaches requests to their periods and refines each period's
// status. Requests for unknown periods are ignored. Periods are not modified.
func Reconcile(periods []Period, requests []Request, today generic.TimePoint) []Summary {
	summaries := make([]Summary, len(periods))
	index := make(map[string]int, len(periods))
	for i, p := range periods {
		summaries[i] = Summary{
			Period:        p,
			DaysBooked:    generic.Days(0),
			DaysPending:   generic.Days(0),
			DaysRemaining: generic.Days(p.DaysAvailable),
		}
		index[p.Start.String()] = i
	}

	for _, r := range requests {
		i, ok := index[r.PeriodStart.String()]
		if !ok {
			continue
		}
		s := &summaries[i]
		s.Requests = append(s.Requests, r)
		switch r.Status {
		case RequestApproved:
			s.DaysBooked = s.DaysBooked.Add(generic.Days(r.Days()))
		case RequestPending:
			s.DaysPending = s.DaysPending.Add(generic.Days(r.Days()))
		}
	}

	for i := range summaries {
		s := &summaries[i]
		sort.Slice(s.Requests, func(a, b int) bool { return s.Requests[a].Start.Before(s.Requests[b].Start) })
		s.DaysRemaining = generic.Days(s.DaysAvailable).Sub(s.DaysBooked).Sub(s.DaysPending)
		s.Status = refineStatus(*s, today)
	}
	return summaries
}

func refineStatus(s Summary, today generic.TimePoint) Status {
	var upcoming bool
	for _, r := range s.Requests {
		if r.Status == RequestApproved && r.End.AfterOrEqual(today) {
			upcoming = true
		}
	}
	switch {
	case upcoming:
		return StatusScheduled
	case s.DaysBooked.Int() >= s.DaysAvailable:
		return StatusCompleted
	default:
		return s.Period.Status
	}
}

// ValidateRequest checks a new request against the employee's reconciled
// periods as of today. existing must contain every request of the employee.
func ValidateRequest(req Request, summaries []Summary, existing []Request, today generic.TimePoint) error {
	if err := req.Range().Validate(); err != nil {
		return err
	}

	var summary *Summary
	for i := range summaries {
		if summaries[i].Start.Equal(req.PeriodStart) {
			summary = &summaries[i]
			break
		}
	}
	if summary == nil {
		return fmt.Errorf("%w: %s", ErrPeriodNotFound, req.PeriodStart)
	}

	if summary.Period.Status == StatusExpired {
		return fmt.Errorf("%w: deadline was %s", ErrPeriodExpired, FormatDate(summary.UsageDeadline()))
	}
	if req.Start.Before(summary.UsageStart()) {
		return fmt.Errorf("%w: available from %s", ErrAccrualIncomplete, FormatDate(summary.UsageStart()))
	}
	if req.Start.Before(today) {
		return fmt.Errorf("%w: starts %s, today is %s", ErrStartInPast, FormatDate(req.Start), FormatDate(today))
	}
	if req.End.After(summary.UsageDeadline()) {
		return fmt.Errorf("%w: deadline is %s", ErrPastDeadline, FormatDate(summary.UsageDeadline()))
	}

	for _, other := range existing {
		if other.ID == req.ID || !other.Status.Active() {
			continue
		}
		if other.Range().Overlaps(req.Range()) {
			return fmt.Errorf("%w: %s %s", ErrOverlap, other.ID, other.Range())
		}
	}

	// A stored request being re-validated already holds its own days.
	remaining := summary.DaysRemaining
	for _, r := range summary.Requests {
		if r.ID == req.ID && r.Status.Active() {
			remaining = remaining.Add(generic.Days(r.Days()))
		}
	}

	requested := generic.Days(req.Days())
	if requested.GreaterThan(remaining) {
		return &generic.InsufficientBalanceError{
			EntityID:  req.EmployeeID,
			Available: remaining,
			Requested: requested,
		}
	}

	var fractions []int
	for _, r := range summary.Requests {
		if r.ID != req.ID && r.Status.Active() {
			fractions = append(fractions, r.Days())
		}
	}
	return validateFractions(fractions, req.Days(), summary.DaysAvailable)
}

func validateFractions(existing []int, requested, available int) error {
	if requested < MinFractionDays {
		return fmt.Errorf("%w: each fraction needs at least %d days", ErrFraction, MinFractionDays)
	}
	if len(existing)+1 > MaxFractions {
		return fmt.Errorf("%w: at most %d fractions per period", ErrFraction, MaxFractions)
	}

	used := requested
	hasMain := requested >= MainFractionDays
	for _, d := range existing {
		used += d
		if d >= MainFractionDays {
			hasMain = true
		}
	}
	if hasMain {
		return nil
	}

	// The main fraction must still fit in a remaining slot.
	slotsLeft := MaxFractions - len(existing) - 1
	if slotsLeft == 0 || available-used < MainFractionDays {
		return fmt.Errorf("%w: one fraction must have at least %d days", ErrFraction, MainFractionDays)
	}
	return nil
}
