/*
Package generic provides the domain-agnostic building blocks of the vacation
engine: calendar dates, date ranges, day amounts, identifiers and errors.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 30 days)
  - Entity IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so balances never drift
  2. Type Safety: Strong typing for IDs prevents mixing employee/request IDs
  3. Values: Everything here is an immutable value type

USAGE:
  remaining := generic.NewAmountFromInt(30, generic.UnitDays).
      Sub(generic.NewAmountFromInt(10, generic.UnitDays))

SEE ALSO:
  - time.go: TimePoint, Clock
  - period.go: Period, anniversary periods
  - errors.go: Shared errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays Unit = "days"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func Days(n int) Amount { return NewAmountFromInt(n, UnitDays) }

func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }

// Int returns the whole-day part of the amount.
func (a Amount) Int() int { return int(a.Value.IntPart()) }

// Float is for JSON encoding only.
func (a Amount) Float() float64 { return a.Value.InexactFloat64() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EntityID string
type RequestID string
