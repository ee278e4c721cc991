/*
handlers.go - HTTP API handlers for the vacation engine

PURPOSE:
  Exposes the calculator and the request ledger via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to vacation.Service.

ENDPOINTS:
  Calculator:
    GET    /api/calculator?hire_date=&today=      Periods for a hire date

  Employees:
    GET    /api/employees                         List all employees
    POST   /api/employees                         Create employee
    GET    /api/employees/{id}                    Get employee details
    GET    /api/employees/{id}/periods?today=     Periods with balances

  Requests:
    GET    /api/employees/{id}/requests           Request history
    POST   /api/employees/{id}/requests           Submit a request
    GET    /api/requests/pending                  Approval queue
    GET    /api/requests/{id}                     Request details
    POST   /api/requests/{id}/approve             Approve
    POST   /api/requests/{id}/reject              Reject
    DELETE /api/requests/{id}                     Cancel

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, rule violations
  - 404: Employee or request not found
  - 409: Conflict (duplicate ID, invalid status transition)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// ScenarioStore is the store surface scenarios need: the service store plus
// a way to wipe it.
type ScenarioStore interface {
	vacation.Store
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *vacation.Service
	Store   ScenarioStore
	Logger  *zap.Logger
	Metrics *Metrics

	validate *validator.Validate

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler.
func NewHandler(svc *vacation.Service, store ScenarioStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Service:  svc,
		Store:    store,
		Logger:   logger,
		Metrics:  NewMetrics(),
		validate: validator.New(),
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if pinger, ok := h.Store.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// CALCULATOR
// =============================================================================

// CalculatePeriods computes periods for an arbitrary hire date.
// GET /api/calculator?hire_date=2020-01-01&today=2021-06-15
func (h *Handler) CalculatePeriods(w http.ResponseWriter, r *http.Request) {
	hireDate, err := generic.ParseISO(r.URL.Query().Get("hire_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}
	today, ok := h.todayParam(w, r)
	if !ok {
		return
	}

	periods, err := vacation.CalculatePeriods(hireDate, today)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	writeJSON(w, http.StatusOK, PeriodsResponse{
		HireDate: hireDate.String(),
		AsOf:     today.String(),
		Periods:  dtos,
	})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), generic.EntityID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	hireDate, err := generic.ParseISO(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), vacation.Employee{
		ID:       generic.EntityID(req.ID),
		Name:     req.Name,
		Email:    req.Email,
		HireDate: hireDate,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*emp))
}

// GetPeriods returns an employee's periods with balances.
// GET /api/employees/{id}/periods?today=YYYY-MM-DD
func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	today, ok := h.todayParam(w, r)
	if !ok {
		return
	}
	employeeID := generic.EntityID(chi.URLParam(r, "id"))

	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	summaries, err := h.Service.PeriodsAsOf(r.Context(), employeeID, today)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dtos := make([]PeriodDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, PeriodsResponse{
		EmployeeID: string(emp.ID),
		HireDate:   emp.HireDate.String(),
		AsOf:       today.String(),
		Periods:    dtos,
	})
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// ListRequests returns an employee's requests.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Service.ListRequests(r.Context(), generic.EntityID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// SubmitRequest books vacation for an employee.
// POST /api/employees/{id}/requests
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequestDTO
	if !h.decode(w, r, &body) {
		return
	}

	// Formats are already checked by the validator.
	periodStart, _ := generic.ParseISO(body.PeriodStart)
	start, _ := generic.ParseISO(body.StartDate)
	end, _ := generic.ParseISO(body.EndDate)

	req, err := h.Service.Submit(r.Context(), vacation.SubmitInput{
		EmployeeID:  generic.EntityID(chi.URLParam(r, "id")),
		PeriodStart: periodStart,
		Start:       start,
		End:         end,
		Reason:      body.Reason,
	})
	h.Metrics.ObserveAction("submit", err)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(*req))
}

// ListPendingRequests returns the approval queue.
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Service.PendingRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// GetRequest returns one request.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.GetRequest(r.Context(), generic.RequestID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*req))
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, "approve", func(ctx context.Context, id generic.RequestID, d DecisionRequest) (*vacation.Request, error) {
		return h.Service.Approve(ctx, id, d.Actor)
	})
}

// RejectRequest rejects a pending request.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, "reject", func(ctx context.Context, id generic.RequestID, d DecisionRequest) (*vacation.Request, error) {
		return h.Service.Reject(ctx, id, d.Actor, d.Reason)
	})
}

// CancelRequest cancels a request that has not started.
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, "cancel", func(ctx context.Context, id generic.RequestID, d DecisionRequest) (*vacation.Request, error) {
		return h.Service.Cancel(ctx, id, d.Actor)
	})
}

type decisionFunc func(ctx context.Context, id generic.RequestID, d DecisionRequest) (*vacation.Request, error)

func (h *Handler) decideRequest(w http.ResponseWriter, r *http.Request, action string, decide decisionFunc) {
	var body DecisionRequest
	if !h.decode(w, r, &body) {
		return
	}

	req, err := decide(r.Context(), generic.RequestID(chi.URLParam(r, "id")), body)
	h.Metrics.ObserveAction(action, err)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*req))
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads and validates a JSON body. It writes the error response and
// returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// todayParam reads ?today=YYYY-MM-DD, defaulting to the service clock.
func (h *Handler) todayParam(w http.ResponseWriter, r *http.Request) (generic.TimePoint, bool) {
	raw := r.URL.Query().Get("today")
	if raw == "" {
		return h.Service.Clock().Today(), true
	}
	today, err := generic.ParseISO(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid today format (use YYYY-MM-DD)", err)
		return generic.TimePoint{}, false
	}
	return today, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var ruleErr *generic.RuleError
	if errors.As(err, &ruleErr) {
		resp.Code = ruleErr.Code
	} else if errors.Is(err, generic.ErrInsufficientBalance) {
		resp.Code = "insufficient_balance"
	}

	switch {
	case generic.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, resp)
	case generic.IsConflict(err):
		writeJSON(w, http.StatusConflict, resp)
	case generic.IsClientError(err):
		writeJSON(w, http.StatusBadRequest, resp)
	default:
		h.Logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
