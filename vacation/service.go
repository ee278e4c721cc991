/*
service.go - Vacation request lifecycle

PURPOSE:
  Ties the calculator, the request ledger and a Store together. Every
  operation recomputes periods from the hire date; nothing derived is stored.

LIFECYCLE:
  pending ──approve──> approved ──cancel (before start)──> canceled
     │
     ├──reject──> rejected
     └──cancel──> canceled

CONCURRENCY:
  Submit and Approve read the ledger, validate, then write. The service mutex
  serializes those sequences so two requests cannot both take the last days.

SEE ALSO:
  - ledger.go: Reconcile, ValidateRequest
  - store/sqlite: Production Store
  - store/memory: In-memory Store
*/
package vacation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/vacation-engine/generic"
)

// Store persists employees and requests. Get methods return (nil, nil) when
// the record does not exist.
type Store interface {
	SaveEmployee(ctx context.Context, emp Employee) error
	GetEmployee(ctx context.Context, id generic.EntityID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	SaveRequest(ctx context.Context, req Request) error
	GetRequest(ctx context.Context, id generic.RequestID) (*Request, error)
	ListRequestsByEmployee(ctx context.Context, employeeID generic.EntityID) ([]Request, error)
	ListRequestsByStatus(ctx context.Context, status RequestStatus) ([]Request, error)
}

type Service struct {
	store  Store
	clock  generic.Clock
	logger *zap.Logger
	mu     sync.Mutex
}

func NewService(store Store, clock generic.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, clock: clock, logger: logger}
}

func (s *Service) Clock() generic.Clock { return s.clock }

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployee stores a new employee. An empty ID is generated.
func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (*Employee, error) {
	if emp.HireDate.After(s.clock.Today()) {
		return nil, fmt.Errorf("%w: %s", ErrHireDateInFuture, emp.HireDate)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = generic.EntityID(uuid.NewString())
	} else if existing, err := s.store.GetEmployee(ctx, emp.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: employee %s", generic.ErrDuplicateID, emp.ID)
	}
	emp.CreatedAt = s.clock.Now()

	if err := s.store.SaveEmployee(ctx, emp); err != nil {
		return nil, fmt.Errorf("save employee: %w", err)
	}
	s.logger.Info("employee created",
		zap.String("employee_id", string(emp.ID)),
		zap.String("hire_date", emp.HireDate.String()))
	return &emp, nil
}

func (s *Service) GetEmployee(ctx context.Context, id generic.EntityID) (*Employee, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	return emp, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.store.ListEmployees(ctx)
}

// =============================================================================
// PERIODS
// =============================================================================

// Periods returns the employee's reconciled periods as of the clock's today.
func (s *Service) Periods(ctx context.Context, employeeID generic.EntityID) ([]Summary, error) {
	return s.PeriodsAsOf(ctx, employeeID, s.clock.Today())
}

// PeriodsAsOf returns the employee's reconciled periods as of today.
func (s *Service) PeriodsAsOf(ctx context.Context, employeeID generic.EntityID, today generic.TimePoint) ([]Summary, error) {
	summaries, _, err := s.ledger(ctx, employeeID, today)
	return summaries, err
}

func (s *Service) ledger(ctx context.Context, employeeID generic.EntityID, today generic.TimePoint) ([]Summary, []Request, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}
	periods, err := CalculatePeriods(emp.HireDate, today)
	if err != nil {
		return nil, nil, err
	}
	requests, err := s.store.ListRequestsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load requests: %w", err)
	}
	return Reconcile(periods, requests, today), requests, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

// SubmitInput is what an employee asks for.
type SubmitInput struct {
	EmployeeID  generic.EntityID
	PeriodStart generic.TimePoint
	Start       generic.TimePoint
	End         generic.TimePoint
	Reason      string
}

// Submit validates and stores a pending request.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	req := Request{
		ID:          generic.RequestID(uuid.NewString()),
		EmployeeID:  in.EmployeeID,
		PeriodStart: in.PeriodStart,
		Start:       in.Start,
		End:         in.End,
		Status:      RequestPending,
		Reason:      strings.TrimSpace(in.Reason),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	today := s.clock.Today()
	summaries, existing, err := s.ledger(ctx, in.EmployeeID, today)
	if err != nil {
		return nil, err
	}
	if err := ValidateRequest(req, summaries, existing, today); err != nil {
		s.logger.Warn("vacation request rejected",
			zap.String("employee_id", string(in.EmployeeID)),
			zap.String("range", req.Range().String()),
			zap.Error(err))
		return nil, err
	}

	if err := s.store.SaveRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	s.logger.Info("vacation request submitted",
		zap.String("request_id", string(req.ID)),
		zap.String("employee_id", string(req.EmployeeID)),
		zap.Int("days", req.Days()))
	return &req, nil
}

func (s *Service) GetRequest(ctx context.Context, id generic.RequestID) (*Request, error) {
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	return req, nil
}

func (s *Service) ListRequests(ctx context.Context, employeeID generic.EntityID) ([]Request, error) {
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.store.ListRequestsByEmployee(ctx, employeeID)
}

func (s *Service) PendingRequests(ctx context.Context) ([]Request, error) {
	return s.store.ListRequestsByStatus(ctx, RequestPending)
}

// Approve moves a pending request to approved. The request is validated again
// since the period may have expired, or the start passed, while it was waiting.
func (s *Service) Approve(ctx context.Context, id generic.RequestID, approver string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != RequestPending {
		return nil, &generic.TransitionError{From: string(req.Status), To: string(RequestApproved)}
	}

	today := s.clock.Today()
	summaries, existing, err := s.ledger(ctx, req.EmployeeID, today)
	if err != nil {
		return nil, err
	}
	if err := ValidateRequest(*req, summaries, existing, today); err != nil {
		return nil, err
	}

	return s.decide(ctx, req, RequestApproved, approver, "")
}

// Reject moves a pending request to rejected.
func (s *Service) Reject(ctx context.Context, id generic.RequestID, approver, reason string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != RequestPending {
		return nil, &generic.TransitionError{From: string(req.Status), To: string(RequestRejected)}
	}
	return s.decide(ctx, req, RequestRejected, approver, reason)
}

// Cancel withdraws a pending request, or an approved one that has not started.
func (s *Service) Cancel(ctx context.Context, id generic.RequestID, actor string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case RequestPending:
	case RequestApproved:
		if !req.Start.After(s.clock.Today()) {
			return nil, fmt.Errorf("%w: started %s", ErrRequestStarted, FormatDate(req.Start))
		}
	default:
		return nil, &generic.TransitionError{From: string(req.Status), To: string(RequestCanceled)}
	}
	return s.decide(ctx, req, RequestCanceled, actor, "")
}

func (s *Service) decide(ctx context.Context, req *Request, status RequestStatus, actor, reason string) (*Request, error) {
	now := s.clock.Now()
	from := req.Status
	req.Status = status
	req.DecidedBy = actor
	req.DecidedAt = &now
	req.RejectionReason = reason
	req.UpdatedAt = now

	if err := s.store.SaveRequest(ctx, *req); err != nil {
		return nil, fmt.Errorf("save request: %w", err)
	}
	s.logger.Info("vacation request "+string(status),
		zap.String("request_id", string(req.ID)),
		zap.String("from", string(from)),
		zap.String("actor", actor),
		zap.Time("at", now))
	return req, nil
}
