/*
Package money provides currency-safe fixed-point arithmetic.

PURPOSE:
  Every financial value in the system flows through this package. Amounts
  are stored as integer minor units (cents), so splitting a total across
  installments can guarantee the sum invariant: no cent is ever lost or
  invented to floating-point rounding.

KEY CONCEPTS:
  - Amount: A currency value backed by int64 cents
  - FromDecimal: Half-up rounding to 2 decimal places at the boundary
  - DistributeEvenly: Equal split with the residual on the LAST share

DESIGN PRINCIPLES:
  1. Integer cents internally: exact addition, exact splitting
  2. decimal.Decimal at the edges: parsing, percentages, display
  3. Construction validates; arithmetic never surprises

USAGE:
  total, _ := money.Parse("1000.00")
  parts, _ := money.DistributeEvenly(total, 3)
  // parts = [333.33, 333.33, 333.34], parts sum to exactly 1000.00

SEE ALSO:
  - schedule/scheduler.go: Uses DistributeEvenly for installment plans
  - allocate/allocator.go: Uses PercentOf for batch allocations
*/
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidArgument is returned for programmer errors: negative totals,
	// non-positive counts. These indicate a caller bug, not bad user input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidArgumentError carries the offending parameter for diagnostics.
type InvalidArgumentError struct {
	Param  string
	Detail string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Detail)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// =============================================================================
// AMOUNT - Currency value as integer cents
// =============================================================================

// Amount is a monetary value in a currency with 2 decimal places,
// stored as integer minor units.
type Amount struct {
	cents int64
}

// Zero is the zero amount.
var Zero = Amount{}

// FromCents builds an Amount directly from minor units.
func FromCents(cents int64) Amount { return Amount{cents: cents} }

// FromDecimal converts a decimal to an Amount, rounding half-up
// to 2 decimal places.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{cents: d.Round(2).Shift(2).IntPart()}
}

// Parse parses a decimal string ("1234.56") into an Amount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for test fixtures and constants; panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Cents returns the value in minor units.
func (a Amount) Cents() int64 { return a.cents }

// Decimal returns the value as a 2-place decimal.
func (a Amount) Decimal() decimal.Decimal { return decimal.New(a.cents, -2) }

// String formats the amount with 2 decimal places.
func (a Amount) String() string { return a.Decimal().StringFixed(2) }

// Arithmetic
func (a Amount) Add(b Amount) Amount { return Amount{cents: a.cents + b.cents} }
func (a Amount) Sub(b Amount) Amount { return Amount{cents: a.cents - b.cents} }
func (a Amount) Neg() Amount         { return Amount{cents: -a.cents} }

// Predicates
func (a Amount) IsZero() bool           { return a.cents == 0 }
func (a Amount) IsNegative() bool       { return a.cents < 0 }
func (a Amount) Equal(b Amount) bool    { return a.cents == b.cents }
func (a Amount) LessThan(b Amount) bool { return a.cents < b.cents }

// PercentOf returns pct% of a, rounded half-up to the cent.
// Used by the batch allocator; each call rounds independently.
func (a Amount) PercentOf(pct decimal.Decimal) Amount {
	return FromDecimal(a.Decimal().Mul(pct).Div(decimal.NewFromInt(100)))
}

// Sum adds a sequence of amounts.
func Sum(amounts []Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// DISTRIBUTION - Equal split preserving the sum invariant
// =============================================================================

// DistributeEvenly splits total into count amounts. Every share is
// floor(total/count) at cent granularity; the LAST share absorbs the
// residual, so the shares always sum to exactly total.
//
// INVARIANT: Sum(DistributeEvenly(t, n)) == t for all t >= 0, n >= 1.
func DistributeEvenly(total Amount, count int) ([]Amount, error) {
	if count <= 0 {
		return nil, &InvalidArgumentError{Param: "count", Detail: fmt.Sprintf("must be >= 1, got %d", count)}
	}
	if total.IsNegative() {
		return nil, &InvalidArgumentError{Param: "total", Detail: fmt.Sprintf("must be >= 0, got %s", total)}
	}

	per := total.cents / int64(count)
	residual := total.cents - per*int64(count)

	shares := make([]Amount, count)
	for i := range shares {
		shares[i] = Amount{cents: per}
	}
	shares[count-1].cents += residual
	return shares, nil
}
