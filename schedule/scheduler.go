/*
scheduler.go - Installment plan generation

PURPOSE:
  Turns a total amount + a payment condition + an anchor date into a
  concrete sequence of dated installments ready to persist. This is the
  core computation of the engine and it is pure: no I/O, no clock reads,
  fully deterministic over its inputs.

ALGORITHM:
  1. No condition -> one installment for the full amount, due on the anchor.
  2. per = floor(total / count) at cent granularity.
  3. effective start = anchor (+ IntervalDays for deferred/installment kinds).
  4. installment i is due effective start + i calendar months. The interval
     only positions the FIRST installment; spacing is always monthly.
  5. The residual from the floor division goes on the LAST installment.

CRITICAL INVARIANTS:
  1. SUM: installment amounts sum to exactly the total. Always.
  2. COUNT: the plan has exactly InstallmentCount installments.
  3. ORDER: due dates are non-decreasing in sequence order.

RESIDUAL POLICY:
  The residual lands on the last installment. This is a documented policy
  choice applied uniformly; callers must not re-distribute it themselves.

SEE ALSO:
  - money/money.go: DistributeEvenly (sum invariant lives there)
  - condition.go: Kind semantics and defaulting
  - ledger/writer.go: Persists generated plans
*/
package schedule

import (
	"fmt"

	"github.com/ordena/finance-engine/money"
)

// =============================================================================
// INSTALLMENT STATUS
// =============================================================================

// Status is the settlement state of an installment. Plans are generated
// pending; status changes only through the settlement workflow.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// =============================================================================
// PLAN - Computed installment schedule
// =============================================================================

// Installment is one scheduled partial payment of a plan.
type Installment struct {
	Sequence int // 1-based position within the plan
	DueDate  Date
	Amount   money.Amount
	Status   Status
}

// Plan is the computed installment schedule for a total amount.
// It is ephemeral: computed, optionally hand-edited, then persisted.
type Plan struct {
	Total        money.Amount
	Anchor       Date
	Installments []Installment
}

// Generate computes the installment plan for total anchored at anchor
// under cond. A nil cond yields the degenerate plan: one installment for
// the full amount due on the anchor date.
func Generate(total money.Amount, anchor Date, cond *Condition) (*Plan, error) {
	if total.IsNegative() {
		return nil, &money.InvalidArgumentError{Param: "total", Detail: fmt.Sprintf("must be >= 0, got %s", total)}
	}

	if cond == nil {
		return &Plan{
			Total:  total,
			Anchor: anchor,
			Installments: []Installment{
				{Sequence: 1, DueDate: anchor, Amount: total, Status: StatusPending},
			},
		}, nil
	}

	count := cond.InstallmentCount()
	amounts, err := money.DistributeEvenly(total, count)
	if err != nil {
		return nil, err
	}

	start := anchor
	if cond.Kind.ShiftsAnchor() {
		start = anchor.AddDays(cond.Interval())
	}

	installments := make([]Installment, count)
	for i := range installments {
		installments[i] = Installment{
			Sequence: i + 1,
			DueDate:  start.AddMonths(i),
			Amount:   amounts[i],
			Status:   StatusPending,
		}
	}

	return &Plan{Total: total, Anchor: anchor, Installments: installments}, nil
}

// Amounts returns the installment amounts in sequence order.
func (p *Plan) Amounts() []money.Amount {
	amounts := make([]money.Amount, len(p.Installments))
	for i, inst := range p.Installments {
		amounts[i] = inst.Amount
	}
	return amounts
}

// =============================================================================
// HAND-EDIT SUPPORT
// =============================================================================

// ReconciliationError reports hand-edited amounts that no longer sum to
// the plan total.
type ReconciliationError struct {
	Total  money.Amount
	Edited money.Amount
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("edited installments sum to %s, plan total is %s (difference %s)",
		e.Edited, e.Total, e.Edited.Sub(e.Total))
}

// ApplyOverrides replaces installment amounts with user-edited values.
// The edit is rejected unless it preserves the sum invariant: one value
// per installment, none negative, summing to exactly the plan total.
// Due dates and sequence are not editable.
func (p *Plan) ApplyOverrides(amounts []money.Amount) error {
	if len(amounts) != len(p.Installments) {
		return &money.InvalidArgumentError{
			Param:  "amounts",
			Detail: fmt.Sprintf("expected %d values, got %d", len(p.Installments), len(amounts)),
		}
	}
	for i, a := range amounts {
		if a.IsNegative() {
			return &money.InvalidArgumentError{
				Param:  "amounts",
				Detail: fmt.Sprintf("installment %d is negative: %s", i+1, a),
			}
		}
	}
	if sum := money.Sum(amounts); !sum.Equal(p.Total) {
		return &ReconciliationError{Total: p.Total, Edited: sum}
	}

	for i := range p.Installments {
		p.Installments[i].Amount = amounts[i]
	}
	return nil
}
