/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES:
  Dates travel as ISO YYYY-MM-DD. Period responses repeat each date in the
  DD/MM/YYYY display format under a *_display key so clients never have to
  localize them.

VALIDATION:
  Request types carry go-playground/validator tags; handlers call
  h.validate.Struct before touching the service.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	HireDate  string `json:"hire_date"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID       string `json:"id" validate:"omitempty,max=64"`
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	HireDate string `json:"hire_date" validate:"required,datetime=2006-01-02"`
}

// =============================================================================
// PERIODS
// =============================================================================

// PeriodDTO is one accrual period. Balance fields are only set when the
// period comes from an employee ledger.
type PeriodDTO struct {
	StartDate            string       `json:"start_date"`
	EndDate              string       `json:"end_date"`
	UsageDeadline        string       `json:"usage_deadline"`
	StartDateDisplay     string       `json:"start_date_display"`
	EndDateDisplay       string       `json:"end_date_display"`
	UsageDeadlineDisplay string       `json:"usage_deadline_display"`
	Type                 string       `json:"type"`
	DaysAvailable        int          `json:"days_available"`
	Status               string       `json:"status"`
	IsExpiring           bool         `json:"is_expiring"`
	DaysBooked           *float64     `json:"days_booked,omitempty"`
	DaysPending          *float64     `json:"days_pending,omitempty"`
	DaysRemaining        *float64     `json:"days_remaining,omitempty"`
	Requests             []RequestDTO `json:"requests,omitempty"`
}

// PeriodsResponse wraps a period list with the date it was computed for.
type PeriodsResponse struct {
	EmployeeID string      `json:"employee_id,omitempty"`
	HireDate   string      `json:"hire_date"`
	AsOf       string      `json:"as_of"`
	Periods    []PeriodDTO `json:"periods"`
}

// =============================================================================
// REQUESTS
// =============================================================================

// RequestDTO represents a vacation request.
type RequestDTO struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	PeriodStart     string `json:"period_start"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Days            int    `json:"days"`
	Status          string `json:"status"`
	Reason          string `json:"reason,omitempty"`
	DecidedBy       string `json:"decided_by,omitempty"`
	DecidedAt       string `json:"decided_at,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// SubmitRequestDTO is the body of POST /api/employees/{id}/requests.
type SubmitRequestDTO struct {
	PeriodStart string `json:"period_start" validate:"required,datetime=2006-01-02"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason      string `json:"reason" validate:"max=500"`
}

// DecisionRequest is the body of approve/reject/cancel calls.
type DecisionRequest struct {
	Actor  string `json:"actor" validate:"required,max=100"`
	Reason string `json:"reason" validate:"max=500"`
}

// =============================================================================
// MISC
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(e vacation.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:       string(e.ID),
		Name:     e.Name,
		Email:    e.Email,
		HireDate: e.HireDate.String(),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toPeriodDTO(p vacation.Period) PeriodDTO {
	return PeriodDTO{
		StartDate:            p.Start.String(),
		EndDate:              p.End.String(),
		UsageDeadline:        p.UsageDeadline().String(),
		StartDateDisplay:     vacation.FormatDate(p.Start),
		EndDateDisplay:       vacation.FormatDate(p.End),
		UsageDeadlineDisplay: vacation.FormatDate(p.UsageDeadline()),
		Type:                 string(p.Type),
		DaysAvailable:        p.DaysAvailable,
		Status:               string(p.Status),
		IsExpiring:           p.IsExpiring,
	}
}

func toSummaryDTO(s vacation.Summary) PeriodDTO {
	dto := toPeriodDTO(s.Period)
	dto.DaysBooked = floatPtr(s.DaysBooked)
	dto.DaysPending = floatPtr(s.DaysPending)
	dto.DaysRemaining = floatPtr(s.DaysRemaining)
	for _, r := range s.Requests {
		dto.Requests = append(dto.Requests, toRequestDTO(r))
	}
	return dto
}

func toRequestDTO(r vacation.Request) RequestDTO {
	dto := RequestDTO{
		ID:              string(r.ID),
		EmployeeID:      string(r.EmployeeID),
		PeriodStart:     r.PeriodStart.String(),
		StartDate:       r.Start.String(),
		EndDate:         r.End.String(),
		Days:            r.Days(),
		Status:          string(r.Status),
		Reason:          r.Reason,
		DecidedBy:       r.DecidedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		dto.DecidedAt = r.DecidedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toRequestDTOs(reqs []vacation.Request) []RequestDTO {
	dtos := make([]RequestDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toRequestDTO(r)
	}
	return dtos
}

func floatPtr(a generic.Amount) *float64 {
	f := a.Float()
	return &f
}
