/*
store.go - Persistence interface for the ledger

PURPOSE:
  Defines what the Writer needs from the database. Each Create* call is
  an independent operation against the store: there is NO multi-record
  transaction here. The Writer owns the ordering (parent before children)
  and the partial-failure reporting; the store just persists one record
  at a time.

  Creates are insert-only. Generated movements, receivables, and advances
  are never edited in place; the only mutations are the receivable status
  transitions of the settlement workflow and the work order's processed
  flag.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store (also carries the catalogs)
  - ledger/store: In-memory implementation for tests

SEE ALSO:
  - writer.go: Only consumer of this interface
*/
package ledger

import (
	"context"

	"github.com/ordena/finance-engine/schedule"
)

// MovementStore persists the receivables flow.
type MovementStore interface {
	// GetWorkOrder loads the originating document.
	// Returns ErrWorkOrderNotFound if it does not exist.
	GetWorkOrder(ctx context.Context, id string) (*WorkOrder, error)

	// MarkWorkOrderProcessed flips the financially-processed flag.
	MarkWorkOrderProcessed(ctx context.Context, id string) error

	// CreateMovement persists a parent movement record.
	CreateMovement(ctx context.Context, m FinancialMovement) error

	// CreateReceivable persists one child receivable. One network
	// operation per call; no batching, no rollback.
	CreateReceivable(ctx context.Context, r Receivable) error

	// ReceivablesByMovement returns a movement's children in sequence order.
	ReceivablesByMovement(ctx context.Context, movementID string) ([]Receivable, error)
}

// PayrollStore persists the advance-batch flow.
type PayrollStore interface {
	// CreateAdvanceBatch persists a parent batch record.
	CreateAdvanceBatch(ctx context.Context, b AdvanceBatch) error

	// CreateAdvance persists one child advance.
	CreateAdvance(ctx context.Context, a Advance) error

	// AdvancesByBatch returns a batch's children in creation order.
	AdvancesByBatch(ctx context.Context, batchID string) ([]Advance, error)
}

// Store is the full persistence surface the Writer depends on.
type Store interface {
	MovementStore
	PayrollStore
}

// SettlementStore is the external settlement workflow's mutation surface.
// Kept separate from Store: the Writer never changes installment status.
type SettlementStore interface {
	// SetReceivableStatus transitions a receivable's status. paidAt is
	// set for paid transitions and nil otherwise.
	SetReceivableStatus(ctx context.Context, id string, status schedule.Status, paidAt *schedule.Date) error
}
