package vacation

import "github.com/warp/vacation-engine/generic"

// Rule violations. All of them unwrap to generic.ErrRuleViolation.
var (
	ErrHireDateInFuture  = generic.NewRuleError("hire_date_in_future", "hire date is after today")
	ErrPeriodNotFound    = generic.NewRuleError("period_not_found", "no accrual period starts on that date")
	ErrAccrualIncomplete = generic.NewRuleError("accrual_incomplete", "vacation can only start after the accrual period ends")
	ErrStartInPast       = generic.NewRuleError("start_in_past", "vacation cannot start before today")
	ErrPastDeadline      = generic.NewRuleError("past_deadline", "vacation must end by the period's usage deadline")
	ErrPeriodExpired     = generic.NewRuleError("period_expired", "vacation period expired")
	ErrOverlap           = generic.NewRuleError("overlap", "request overlaps another active request")
	ErrFraction          = generic.NewRuleError("fraction", "request breaks the vacation fractioning rules")
	ErrRequestStarted    = generic.NewRuleError("request_started", "approved vacation already started")
)
