/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Every date is relative to the service clock,
	so a scenario looks the same whenever it is loaded.

AVAILABLE SCENARIOS:

	new-hire:   Hired three months ago, first period still accruing
	expiring:   First period's usage deadline is one month away
	veteran:    Five years of service, old periods completed or expired
	scheduled:  Approved vacation coming up, plus a request awaiting approval

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employee through the service
 3. Write historical requests straight to the store (they predate today,
    so booking rules would refuse them)
 4. Submit current requests through the service

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "veteran"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add it to the loaders map

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Request handlers
  - vacation/service.go: Booking operations used by loaders
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "new-hire",
		Name:        "New Hire",
		Description: "Hired three months ago; first period still accruing",
	},
	{
		ID:          "expiring",
		Name:        "Expiring Period",
		Description: "First period must be used within a month",
	},
	{
		ID:          "veteran",
		Name:        "Veteran",
		Description: "Five years of service with completed and expired periods",
	},
	{
		ID:          "scheduled",
		Name:        "Scheduled Vacation",
		Description: "Approved vacation next month and a pending request",
	},
}

type scenarioLoader func(h *Handler, ctx context.Context) error

var loaders = map[string]scenarioLoader{
	"new-hire":  (*Handler).loadNewHireScenario,
	"expiring":  (*Handler).loadExpiringScenario,
	"veteran":   (*Handler).loadVeteranScenario,
	"scheduled": (*Handler).loadScheduledScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}
	load, ok := loaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(h, ctx); err != nil {
		h.Logger.Error("scenario load failed", zap.String("scenario", req.ScenarioID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID
	h.Logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID))

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all employees and requests.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadNewHireScenario(ctx context.Context) error {
	today := h.Service.Clock().Today()
	_, err := h.Service.CreateEmployee(ctx, vacation.Employee{
		ID:       "emp-001",
		Name:     "Ana Souza",
		Email:    "ana@example.com",
		HireDate: today.AddMonths(-3),
	})
	return err
}

func (h *Handler) loadExpiringScenario(ctx context.Context) error {
	today := h.Service.Clock().Today()

	// Deadline = hire + 12 + 11 months = today + 1 month.
	emp, err := h.Service.CreateEmployee(ctx, vacation.Employee{
		ID:       "emp-002",
		Name:     "Bruno Lima",
		Email:    "bruno@example.com",
		HireDate: today.AddMonths(-22),
	})
	if err != nil {
		return err
	}

	periods, err := vacation.CalculatePeriods(emp.HireDate, today)
	if err != nil {
		return err
	}

	// Ten days already taken, twenty left before the deadline.
	first := periods[0]
	start := first.UsageStart().AddMonths(1)
	return h.saveHistory(ctx, emp.ID, first, start, start.AddDays(9), vacation.RequestApproved)
}

func (h *Handler) loadVeteranScenario(ctx context.Context) error {
	today := h.Service.Clock().Today()
	emp, err := h.Service.CreateEmployee(ctx, vacation.Employee{
		ID:       "emp-003",
		Name:     "Carla Mendes",
		Email:    "carla@example.com",
		HireDate: today.AddYears(-5).AddDays(-20),
	})
	if err != nil {
		return err
	}
	periods, err := vacation.CalculatePeriods(emp.HireDate, today)
	if err != nil {
		return err
	}

	// Periods 1 and 2 were fully taken in a single 30-day block. Period 3 was
	// taken in two fractions. Later periods are untouched.
	for i, p := range periods[:2] {
		start := p.UsageStart().AddMonths(2)
		if err := h.saveHistory(ctx, emp.ID, p, start, start.AddDays(vacation.DaysPerPeriod-1), vacation.RequestApproved); err != nil {
			return fmt.Errorf("period %d: %w", i+1, err)
		}
	}
	third := periods[2]
	start := third.UsageStart().AddMonths(1)
	if err := h.saveHistory(ctx, emp.ID, third, start, start.AddDays(19), vacation.RequestApproved); err != nil {
		return err
	}
	start = third.UsageStart().AddMonths(6)
	if err := h.saveHistory(ctx, emp.ID, third, start, start.AddDays(9), vacation.RequestApproved); err != nil {
		return err
	}
	// A rejected request leaves no trace on the balance.
	start = periods[3].UsageStart().AddMonths(3)
	return h.saveHistory(ctx, emp.ID, periods[3], start, start.AddDays(14), vacation.RequestRejected)
}

func (h *Handler) loadScheduledScenario(ctx context.Context) error {
	today := h.Service.Clock().Today()
	emp, err := h.Service.CreateEmployee(ctx, vacation.Employee{
		ID:       "emp-004",
		Name:     "Diego Rocha",
		Email:    "diego@example.com",
		HireDate: today.AddYears(-2).AddMonths(-3),
	})
	if err != nil {
		return err
	}
	periods, err := vacation.CalculatePeriods(emp.HireDate, today)
	if err != nil {
		return err
	}

	// Period 1 expired four months ago. Period 2 became usable three months
	// ago; book 15 days of it next month and approve.
	start := today.AddMonths(1)
	req, err := h.Service.Submit(ctx, vacation.SubmitInput{
		EmployeeID:  emp.ID,
		PeriodStart: periods[1].Start,
		Start:       start,
		End:         start.AddDays(14),
		Reason:      "Family trip",
	})
	if err != nil {
		return err
	}
	if _, err := h.Service.Approve(ctx, req.ID, "manager@example.com"); err != nil {
		return err
	}

	// Second fraction waits for a decision.
	start = today.AddMonths(4)
	_, err = h.Service.Submit(ctx, vacation.SubmitInput{
		EmployeeID:  emp.ID,
		PeriodStart: periods[1].Start,
		Start:       start,
		End:         start.AddDays(9),
		Reason:      "Year-end break",
	})
	return err
}

// saveHistory writes a request that has already been decided. It bypasses
// booking rules, which refuse dates that are no longer bookable.
func (h *Handler) saveHistory(ctx context.Context, employeeID generic.EntityID, p vacation.Period, start, end generic.TimePoint, status vacation.RequestStatus) error {
	now := h.Service.Clock().Now()
	decidedAt := start.AddDays(-30).Time
	req := vacation.Request{
		ID:          generic.RequestID(fmt.Sprintf("req-%s-%s", employeeID, start)),
		EmployeeID:  employeeID,
		PeriodStart: p.Start,
		Start:       start,
		End:         end,
		Status:      status,
		DecidedBy:   "manager@example.com",
		DecidedAt:   &decidedAt,
		CreatedAt:   decidedAt.AddDate(0, 0, -7),
		UpdatedAt:   now,
	}
	if status == vacation.RequestRejected {
		req.RejectionReason = "Team coverage"
	}
	return h.Store.SaveRequest(ctx, req)
}
