/*
Package ledger persists computed installment plans and advance batches
as financial records.

PURPOSE:
  The schedule and allocate packages are pure computation. This package
  owns the records they turn into: a parent movement (or advance batch)
  plus one child record per installment (or per recipient), linked by a
  foreign identifier, with the originating work order marked as
  financially processed.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkOrder: The originating document for the receivables flow
  - FinancialMovement: Parent record for a generated receivable set
  - Receivable: One installment, carrying due date, amount, and status
  - AdvanceBatch / Advance: Parent and children of the payroll flow
  - Employee: Advance recipient with a salary base value

SEE ALSO:
  - store.go: Persistence interface
  - writer.go: Parent-then-children write orchestration
  - errors.go: Error taxonomy
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
)

// =============================================================================
// WORK ORDER - Originating document
// =============================================================================

// WorkOrder is the originating document for the receivables flow. Only
// the fields the financial flow needs live here; the rest of the work
// order (items, technicians, ...) is outside this engine.
type WorkOrder struct {
	ID           string
	Number       string
	CustomerName string
	OpenedAt     schedule.Date // anchor date for due-date derivation
	Total        money.Amount
	Processed    bool // financial records already generated
	CreatedAt    time.Time
}

// =============================================================================
// RECEIVABLES FLOW - Parent movement + child receivables
// =============================================================================

// FinancialMovement is the parent record of a generated receivable set.
type FinancialMovement struct {
	ID           string
	WorkOrderID  string
	Description  string
	Total        money.Amount
	Competencia  schedule.YearMonth
	Installments int
	ConditionID  string // payment condition used, empty for the degenerate plan
	CreatedBy    string
	CreatedAt    time.Time
}

// Receivable is one installment of a movement (conta a receber).
type Receivable struct {
	ID         string
	MovementID string
	Sequence   int // 1-based, matches the plan's installment order
	DueDate    schedule.Date
	Amount     money.Amount
	Status     schedule.Status
	PaidAt     *schedule.Date
	CreatedAt  time.Time
}

// =============================================================================
// PAYROLL FLOW - Parent batch + child advances
// =============================================================================

// Employee is an advance recipient. Salary is the base value the batch
// percentage applies to; a zero salary yields a zero advance.
type Employee struct {
	ID        string
	Name      string
	Salary    money.Amount
	Active    bool
	CreatedAt time.Time
}

// AdvanceBatch is the parent record of a payroll-advance generation.
type AdvanceBatch struct {
	ID          string
	Competencia schedule.YearMonth
	Percentage  decimal.Decimal
	Anchor      schedule.Date
	Total       money.Amount // informational sum of the rounded advances
	CreatedBy   string
	CreatedAt   time.Time
}

// Advance is one employee's payroll advance within a batch.
type Advance struct {
	ID           string
	BatchID      string
	EmployeeID   string
	EmployeeName string
	BaseValue    money.Amount
	Amount       money.Amount
	DueDate      schedule.Date
	Status       schedule.Status
	CreatedAt    time.Time
}
