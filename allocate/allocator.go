/*
Package allocate computes per-recipient amounts from a shared percentage.

PURPOSE:
  The payroll-advance batch flow applies one percentage rule to a set of
  employees with heterogeneous base values (salaries). Each recipient's
  amount is computed and rounded INDEPENDENTLY; there is no cross-recipient
  reconciliation. The displayed total is simply the sum of the rounded
  parts, so it can differ from percentage-of-grand-total by fractions of
  a cent. That is intentional and covered by tests, not silently "fixed".

SELECTION:
  Only recipients flagged Selected produce an allocation. Unselected
  recipients are excluded entirely, not zero-filled.

SEE ALSO:
  - money/money.go: PercentOf (half-up rounding per recipient)
  - ledger/writer.go: Persists allocations as advance records
*/
package allocate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ordena/finance-engine/money"
)

// Recipient is one candidate for a batch allocation. A zero BaseValue
// (missing salary) yields a zero allocation, not an error.
type Recipient struct {
	ID        string
	Name      string
	BaseValue money.Amount
	Selected  bool
}

// Allocation is the computed amount for one selected recipient.
type Allocation struct {
	RecipientID   string
	RecipientName string
	BaseValue     money.Amount
	Amount        money.Amount
}

// Batch is a percentage rule over a set of recipients.
type Batch struct {
	Percentage decimal.Decimal // 0..100
	Recipients []Recipient
}

// Compute returns one allocation per selected recipient, each rounded
// independently, plus the informational total of the rounded amounts.
// Percentage outside [0, 100] is an invalid argument.
func (b Batch) Compute() ([]Allocation, money.Amount, error) {
	if b.Percentage.IsNegative() || b.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, money.Zero, &money.InvalidArgumentError{
			Param:  "percentage",
			Detail: fmt.Sprintf("must be in [0, 100], got %s", b.Percentage),
		}
	}

	var allocations []Allocation
	var total money.Amount
	for _, r := range b.Recipients {
		if !r.Selected {
			continue
		}
		amount := r.BaseValue.PercentOf(b.Percentage)
		allocations = append(allocations, Allocation{
			RecipientID:   r.ID,
			RecipientName: r.Name,
			BaseValue:     r.BaseValue,
			Amount:        amount,
		})
		total = total.Add(amount)
	}
	return allocations, total, nil
}

// SelectedCount returns how many recipients are flagged for allocation.
func (b Batch) SelectedCount() int {
	n := 0
	for _, r := range b.Recipients {
		if r.Selected {
			n++
		}
	}
	return n
}
