// Package vacation implements statutory (CLT) vacation tracking: anniversary
// accrual periods, their usage deadlines and the leave requests booked against
// them.
package vacation

import (
	"time"

	"github.com/warp/vacation-engine/generic"
)

// Entitlement constants. A full accrual year grants 30 calendar days which
// must be taken within the 11 months after the year completes.
const (
	DaysPerPeriod       = 30
	UsageWindowMonths   = 11
	ExpiryWarningMonths = 2
)

// =============================================================================
// PERIOD
// =============================================================================

// PeriodType distinguishes full-year periods from proportional ones.
// Only PeriodRegular is produced; proportional entitlement is not computed.
type PeriodType string

const (
	PeriodRegular      PeriodType = "regular"
	PeriodProportional PeriodType = "proportional"
)

// Status is derived on every calculation and never stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Period is one anniversary accrual year.
type Period struct {
	Start         generic.TimePoint
	End           generic.TimePoint
	Type          PeriodType
	DaysAvailable int
	Status        Status
	IsExpiring    bool
}

// UsageStart is the first day the accrued days may be taken.
func (p Period) UsageStart() generic.TimePoint { return p.End }

// UsageDeadline is the last day of the usage window.
func (p Period) UsageDeadline() generic.TimePoint { return p.End.AddMonths(UsageWindowMonths) }

// WarningStart opens the expiry warning window.
func (p Period) WarningStart() generic.TimePoint {
	return p.UsageDeadline().AddMonths(-ExpiryWarningMonths)
}

// Accrual returns the period as a plain date range.
func (p Period) Accrual() generic.Period { return generic.Period{Start: p.Start, End: p.End} }

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID        generic.EntityID
	Name      string
	Email     string
	HireDate  generic.TimePoint
	CreatedAt time.Time
}

// =============================================================================
// REQUEST
// =============================================================================

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestCanceled RequestStatus = "canceled"
)

// Active requests hold days against a period.
func (s RequestStatus) Active() bool {
	return s == RequestPending || s == RequestApproved
}

// Request books calendar days [Start, End] against the period starting at
// PeriodStart.
type Request struct {
	ID              generic.RequestID
	EmployeeID      generic.EntityID
	PeriodStart     generic.TimePoint
	Start           generic.TimePoint
	End             generic.TimePoint
	Status          RequestStatus
	Reason          string
	DecidedBy       string
	DecidedAt       *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Days counts the inclusive calendar days requested.
func (r Request) Days() int { return r.Range().Days() }

func (r Request) Range() generic.Period { return generic.Period{Start: r.Start, End: r.End} }
