/*
Package sqlite provides a SQLite-backed implementation of vacation.Store.

PURPOSE:
  Persists employees and vacation requests. Periods, balances and statuses
  are never stored: they are recomputed from the hire date and the requests
  on every read.

KEY TABLES:
  employees:          Entity records (hire date anchors every period)
  vacation_requests:  Booked leave, one row per request

INDEXES:
  - idx_requests_employee_start: Ledger load per employee (hot path)
  - idx_requests_status:         Approval queue

DATES:
  Calendar dates are stored as TEXT in YYYY-MM-DD, timestamps in RFC3339.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection so that
  ":memory:" databases are shared by every query.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/vacation.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := vacation.NewService(store, clock, logger)

SEE ALSO:
  - vacation/service.go: Store interface
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/vacation-engine/generic"
	"github.com/warp/vacation-engine/vacation"
)

// Store implements vacation.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time check that Store implements vacation.Store
var _ vacation.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection (health endpoint).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vacation_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		period_start TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		decided_by TEXT,
		decided_at TEXT,
		rejection_reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee_start
		ON vacation_requests(employee_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON vacation_requests(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes all data (demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"vacation_requests", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee saves an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp vacation.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			hire_date = excluded.hire_date
	`

	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email,
		emp.HireDate.String(),
		createdAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id generic.EntityID) (*vacation.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, hire_date, created_at FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees.
func (s *Store) ListEmployees(ctx context.Context) ([]vacation.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, hire_date, created_at FROM employees ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []vacation.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row interface{ Scan(dest ...any) error }) (vacation.Employee, error) {
	var emp vacation.Employee
	var id, hireDate, createdAt string
	var email sql.NullString
	if err := row.Scan(&id, &emp.Name, &email, &hireDate, &createdAt); err != nil {
		return emp, err
	}
	emp.ID = generic.EntityID(id)
	emp.Email = email.String
	hd, err := generic.ParseISO(hireDate)
	if err != nil {
		return emp, fmt.Errorf("employee %s: bad hire_date %q: %w", id, hireDate, err)
	}
	emp.HireDate = hd
	if emp.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return emp, fmt.Errorf("employee %s: bad created_at: %w", id, err)
	}
	return emp, nil
}

// =============================================================================
// REQUEST STORE
// =============================================================================

const requestColumns = `id, employee_id, period_start, start_date, end_date, status,
	reason, decided_by, decided_at, rejection_reason, created_at, updated_at`

// SaveRequest inserts a request or updates its decision fields.
func (s *Store) SaveRequest(ctx context.Context, r vacation.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO vacation_requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			decided_by = excluded.decided_by,
			decided_at = excluded.decided_at,
			rejection_reason = excluded.rejection_reason,
			updated_at = excluded.updated_at
	`

	var decidedAt sql.NullString
	if r.DecidedAt != nil {
		decidedAt = sql.NullString{String: r.DecidedAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, r.PeriodStart.String(), r.Start.String(), r.End.String(),
		r.Status, nullString(r.Reason), nullString(r.DecidedBy), decidedAt,
		nullString(r.RejectionReason),
		r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, r.EmployeeID)
		}
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

// GetRequest retrieves a request by ID.
func (s *Store) GetRequest(ctx context.Context, id generic.RequestID) (*vacation.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM vacation_requests WHERE id = ?", id)
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRequestsByEmployee returns an employee's requests ordered by start date.
func (s *Store) ListRequestsByEmployee(ctx context.Context, employeeID generic.EntityID) ([]vacation.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequests(ctx, `
		SELECT `+requestColumns+`
		FROM vacation_requests
		WHERE employee_id = ?
		ORDER BY start_date ASC, created_at ASC
	`, employeeID)
}

// ListRequestsByStatus returns requests in a status, oldest submission first.
func (s *Store) ListRequestsByStatus(ctx context.Context, status vacation.RequestStatus) ([]vacation.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequests(ctx, `
		SELECT `+requestColumns+`
		FROM vacation_requests
		WHERE status = ?
		ORDER BY created_at ASC
	`, status)
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]vacation.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []vacation.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func scanRequest(row interface{ Scan(dest ...any) error }) (vacation.Request, error) {
	var r vacation.Request
	var id, employeeID, periodStart, start, end, status, createdAt, updatedAt string
	var reason, decidedBy, decidedAt, rejection sql.NullString
	if err := row.Scan(&id, &employeeID, &periodStart, &start, &end, &status,
		&reason, &decidedBy, &decidedAt, &rejection, &createdAt, &updatedAt); err != nil {
		return r, err
	}

	r.ID = generic.RequestID(id)
	r.EmployeeID = generic.EntityID(employeeID)
	r.Status = vacation.RequestStatus(status)
	r.Reason = reason.String
	r.DecidedBy = decidedBy.String
	r.RejectionReason = rejection.String

	var err error
	if r.PeriodStart, err = generic.ParseISO(periodStart); err != nil {
		return r, fmt.Errorf("request %s: bad period_start: %w", id, err)
	}
	if r.Start, err = generic.ParseISO(start); err != nil {
		return r, fmt.Errorf("request %s: bad start_date: %w", id, err)
	}
	if r.End, err = generic.ParseISO(end); err != nil {
		return r, fmt.Errorf("request %s: bad end_date: %w", id, err)
	}

	if r.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return r, fmt.Errorf("request %s: bad created_at: %w", id, err)
	}
	if r.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return r, fmt.Errorf("request %s: bad updated_at: %w", id, err)
	}
	if decidedAt.Valid {
		t, err := parseTimestamp(decidedAt.String)
		if err != nil {
			return r, fmt.Errorf("request %s: bad decided_at: %w", id, err)
		}
		r.DecidedAt = &t
	}
	return r, nil
}

// Helper functions

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
