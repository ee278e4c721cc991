/*
errors.go - Centralized error types for the generic layer

PURPOSE:
  All shared error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Lookup errors - Missing employees or requests
  2. Validation errors - Malformed input, business rule violations
  3. Workflow errors - Invalid request state transitions

USAGE:
  Domain packages declare their own errors on top of these:

    var ErrPeriodExpired = generic.NewRuleError("period_expired", "vacation period expired")

    if generic.IsClientError(err) {
        // 4xx
    }

SEE ALSO:
  - vacation/errors.go: Domain rule errors
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced request doesn't exist.
	ErrRequestNotFound = errors.New("request not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInsufficientBalance is returned when a booking exceeds the remaining days.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrRuleViolation is the parent of every business rule error.
	ErrRuleViolation = errors.New("rule violation")

	// ErrInvalidTransition is returned when a request cannot move to the target status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicateID is returned when a record with the same ID already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	EntityID  EntityID
	Available Amount
	Requested Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %v %s, requested %v %s",
		e.Available.Value, e.Available.Unit, e.Requested.Value, e.Requested.Unit)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// RuleError is a named business rule violation.
type RuleError struct {
	Code    string // e.g. "period_expired", "fraction_too_short"
	Message string
}

// NewRuleError declares a rule error. Intended for package-level vars.
func NewRuleError(code, message string) *RuleError {
	return &RuleError{Code: code, Message: message}
}

func (e *RuleError) Error() string { return e.Message }

func (e *RuleError) Unwrap() error { return ErrRuleViolation }

// TransitionError reports a refused status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move request from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrRuleViolation) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrDuplicateID)
}

// IsConflict returns true if the request clashes with existing state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrDuplicateID)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}
