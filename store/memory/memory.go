// Package memory provides an in-memory vacation.Store (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	employees map[generic.EntityID]vacation.Employee
	requests  map[generic.RequestID]vacation.Request
}

// Compile-time check that Store implements vacation.Store
var _ vacation.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		employees: make(map[generic.EntityID]vacation.Employee),
		requests:  make(map[generic.RequestID]vacation.Request),
	}
}

func (m *Store) SaveEmployee(_ context.Context, emp vacation.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
	return nil
}

func (m *Store) GetEmployee(_ context.Context, id generic.EntityID) (*vacation.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &emp, nil
}

// ListEmployees returns employees ordered by name, like the SQL store.
func (m *Store) ListEmployees(_ context.Context) ([]vacation.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]vacation.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		result = append(result, emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// SaveRequest inserts or replaces a request.
func (m *Store) SaveRequest(_ context.Context, req vacation.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *Store) GetRequest(_ context.Context, id generic.RequestID) (*vacation.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (m *Store) ListRequestsByEmployee(_ context.Context, employeeID generic.EntityID) ([]vacation.Request, error) {
	return m.filter(func(r vacation.Request) bool { return r.EmployeeID == employeeID }), nil
}

func (m *Store) ListRequestsByStatus(_ context.Context, status vacation.RequestStatus) ([]vacation.Request, error) {
	return m.filter(func(r vacation.Request) bool { return r.Status == status }), nil
}

// Reset drops all data.
func (m *Store) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = make(map[generic.EntityID]vacation.Employee)
	m.requests = make(map[generic.RequestID]vacation.Request)
	return nil
}

// filter returns matching requests ordered by start date.
func (m *Store) filter(match func(vacation.Request) bool) []vacation.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []vacation.Request
	for _, r := range m.requests {
		if match(r) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Start.Equal(result[j].Start) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Start.Before(result[j].Start)
	})
	return result
}
