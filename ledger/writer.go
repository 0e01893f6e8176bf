/*
writer.go - Parent-then-children persistence of computed plans

PURPOSE:
  Takes a computed installment plan (or advance allocation set) and
  persists it: one parent record first, then each child sequentially in
  sequence order, then the originating work order is marked processed.

ORDERING GUARANTEES:
  - The parent is always created before any child is attempted.
  - Children are created one at a time, ascending by sequence. Sibling
    order is a convenience, not a correctness requirement.

FAILURE SEMANTICS:
  Each create is an independent store operation. If a child creation
  fails mid-sequence, previously created records stay persisted - there
  is no compensating rollback. The PartialWriteError reports the parent
  ID and how many children made it, so the operator can resume or clean
  up manually. Double submission for the same work order is refused via
  the processed flag, checked before any write.

SEE ALSO:
  - schedule/scheduler.go: Produces the plans persisted here
  - allocate/allocator.go: Produces the allocations persisted here
  - errors.go: ValidationError, PartialWriteError
*/
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena/finance-engine/allocate"
	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
)

// Writer persists computed plans as financial records.
type Writer struct {
	store Store
	now   func() time.Time
}

// NewWriter creates a Writer on top of a store.
func NewWriter(store Store) *Writer {
	return &Writer{store: store, now: time.Now}
}

// NewWriterWithClock creates a Writer with an injected clock, for tests.
func NewWriterWithClock(store Store, now func() time.Time) *Writer {
	return &Writer{store: store, now: now}
}

// =============================================================================
// RECEIVABLES FLOW
// =============================================================================

// ReceivableRequest describes one confirmed generation of receivables
// for a work order.
type ReceivableRequest struct {
	WorkOrderID string
	Plan        *schedule.Plan
	ConditionID string             // empty for the degenerate single-installment plan
	Competencia schedule.YearMonth // zero value: derived from the plan anchor
	Description string
	Actor       string
}

// WriteReceivables persists a plan as one movement plus one receivable
// per installment, and marks the work order financially processed.
// Refuses work orders that were already processed.
func (w *Writer) WriteReceivables(ctx context.Context, req ReceivableRequest) (*FinancialMovement, []Receivable, error) {
	if req.Plan == nil || len(req.Plan.Installments) == 0 {
		return nil, nil, &money.InvalidArgumentError{Param: "plan", Detail: "must have at least one installment"}
	}

	wo, err := w.store.GetWorkOrder(ctx, req.WorkOrderID)
	if err != nil {
		return nil, nil, err
	}
	if wo.Processed {
		return nil, nil, fmt.Errorf("work order %s: %w", wo.ID, ErrAlreadyProcessed)
	}

	competencia := req.Competencia
	if competencia.IsZero() {
		competencia = schedule.YearMonthOf(req.Plan.Anchor)
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Receivables for work order %s", wo.Number)
	}

	movement := FinancialMovement{
		ID:           uuid.NewString(),
		WorkOrderID:  wo.ID,
		Description:  description,
		Total:        req.Plan.Total,
		Competencia:  competencia,
		Installments: len(req.Plan.Installments),
		ConditionID:  req.ConditionID,
		CreatedBy:    req.Actor,
		CreatedAt:    w.now().UTC(),
	}
	if err := w.store.CreateMovement(ctx, movement); err != nil {
		return nil, nil, fmt.Errorf("create movement: %w", err)
	}

	receivables := make([]Receivable, 0, len(req.Plan.Installments))
	for i, inst := range req.Plan.Installments {
		r := Receivable{
			ID:         uuid.NewString(),
			MovementID: movement.ID,
			Sequence:   inst.Sequence,
			DueDate:    inst.DueDate,
			Amount:     inst.Amount,
			Status:     schedule.StatusPending,
			CreatedAt:  w.now().UTC(),
		}
		if err := w.store.CreateReceivable(ctx, r); err != nil {
			return &movement, receivables, &PartialWriteError{
				ParentID:        movement.ID,
				CreatedChildren: i,
				TotalChildren:   len(req.Plan.Installments),
				Err:             err,
			}
		}
		receivables = append(receivables, r)
	}

	if err := w.store.MarkWorkOrderProcessed(ctx, wo.ID); err != nil {
		return &movement, receivables, fmt.Errorf("mark work order processed: %w", err)
	}
	return &movement, receivables, nil
}

// =============================================================================
// PAYROLL ADVANCE FLOW
// =============================================================================

// AdvanceRequest describes one confirmed payroll-advance batch.
type AdvanceRequest struct {
	Competencia schedule.YearMonth
	Anchor      schedule.Date // due date of every advance in the batch
	Percentage  decimal.Decimal
	Recipients  []allocate.Recipient
	Actor       string
}

// Validate checks the business preconditions of a batch. These are user
// errors, reported before any computation or I/O.
func (req AdvanceRequest) Validate() error {
	if req.Anchor.IsZero() {
		return &ValidationError{Field: "anchor", Message: "payment date is required"}
	}
	if req.Competencia.IsZero() {
		return &ValidationError{Field: "competencia", Message: "accounting period is required"}
	}
	batch := allocate.Batch{Percentage: req.Percentage, Recipients: req.Recipients}
	if batch.SelectedCount() == 0 {
		return &ValidationError{Field: "recipients", Message: "select at least one employee"}
	}
	return nil
}

// WriteAdvances validates, computes, and persists a payroll-advance
// batch: parent first, then one advance per selected recipient.
func (w *Writer) WriteAdvances(ctx context.Context, req AdvanceRequest) (*AdvanceBatch, []Advance, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	allocations, total, err := allocate.Batch{
		Percentage: req.Percentage,
		Recipients: req.Recipients,
	}.Compute()
	if err != nil {
		return nil, nil, err
	}

	batch := AdvanceBatch{
		ID:          uuid.NewString(),
		Competencia: req.Competencia,
		Percentage:  req.Percentage,
		Anchor:      req.Anchor,
		Total:       total,
		CreatedBy:   req.Actor,
		CreatedAt:   w.now().UTC(),
	}
	if err := w.store.CreateAdvanceBatch(ctx, batch); err != nil {
		return nil, nil, fmt.Errorf("create advance batch: %w", err)
	}

	advances := make([]Advance, 0, len(allocations))
	for i, alloc := range allocations {
		a := Advance{
			ID:           uuid.NewString(),
			BatchID:      batch.ID,
			EmployeeID:   alloc.RecipientID,
			EmployeeName: alloc.RecipientName,
			BaseValue:    alloc.BaseValue,
			Amount:       alloc.Amount,
			DueDate:      req.Anchor,
			Status:       schedule.StatusPending,
			CreatedAt:    w.now().UTC(),
		}
		if err := w.store.CreateAdvance(ctx, a); err != nil {
			return &batch, advances, &PartialWriteError{
				ParentID:        batch.ID,
				CreatedChildren: i,
				TotalChildren:   len(allocations),
				Err:             err,
			}
		}
		advances = append(advances, a)
	}
	return &batch, advances, nil
}
