/*
condition.go - Payment condition definitions

PURPOSE:
  A payment condition (condição de pagamento) is the reusable rule that
  says how a total splits into installments: how many, at what interval,
  and whether the first due date is pushed out from the anchor.

KINDS:
  KindImmediate:   à vista. First installment due on the anchor date.
  KindDeferred:    a prazo. Single (or few) installments, first one due
                   IntervalDays after the anchor.
  KindInstallment: parcelado. N installments, first due IntervalDays after
                   the anchor, the rest monthly.

  Only deferred and installment kinds shift the anchor; IntervalDays is
  ignored for immediate conditions.

DEFAULTS:
  A condition with no installment count means 1 installment. A condition
  with no interval means 30 days. Defaulting is centralized here so call
  sites never repeat it.

SEE ALSO:
  - scheduler.go: Consumes conditions to generate plans
*/
package schedule

// Kind classifies how a payment condition positions its first due date.
type Kind string

const (
	KindImmediate   Kind = "immediate"
	KindDeferred    Kind = "deferred"
	KindInstallment Kind = "installment"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindImmediate, KindDeferred, KindInstallment:
		return true
	}
	return false
}

// ShiftsAnchor reports whether the first due date moves IntervalDays
// past the anchor for this kind.
func (k Kind) ShiftsAnchor() bool {
	return k == KindDeferred || k == KindInstallment
}

// Condition is a reusable payment condition from the catalog.
// Installments and IntervalDays are pointers so "absent" is
// distinguishable from an explicit zero; see defaults below.
type Condition struct {
	ID           string
	Name         string
	Kind         Kind
	Installments *int
	IntervalDays *int
}

const (
	defaultInstallments = 1
	defaultIntervalDays = 30
)

// InstallmentCount returns the installment count, defaulting to 1.
func (c *Condition) InstallmentCount() int {
	if c.Installments == nil {
		return defaultInstallments
	}
	return *c.Installments
}

// Interval returns the interval in days, defaulting to 30.
func (c *Condition) Interval() int {
	if c.IntervalDays == nil {
		return defaultIntervalDays
	}
	return *c.IntervalDays
}

// IntPtr is a convenience for building conditions literally.
func IntPtr(n int) *int { return &n }
