/*
errors.go - Error taxonomy for the ledger

PURPOSE:
  Three distinct failure classes, kept apart on purpose:

  1. Validation errors: bad USER input (missing anchor, no recipients
     selected). Surfaced inline, never escalate past the caller.
  2. Invalid arguments: caller BUGS (negative totals, zero counts).
     Defined in the money package; fail fast and loud.
  3. I/O errors: store failures during persistence. No automatic retry
     and no compensating rollback of already-created children; the
     PartialWriteError says exactly how far the write got.

USAGE:
  var vErr *ledger.ValidationError
  if errors.As(err, &vErr) { ... 400 with vErr.Message ... }

SEE ALSO:
  - money/money.go: ErrInvalidArgument
  - writer.go: Produces PartialWriteError
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrWorkOrderNotFound is returned when the originating document
	// does not exist.
	ErrWorkOrderNotFound = errors.New("work order not found")

	// ErrAlreadyProcessed is returned when financial records were already
	// generated for a work order. Guards against double submission.
	ErrAlreadyProcessed = errors.New("work order already financially processed")

	// ErrMovementNotFound is returned for unknown movement IDs.
	ErrMovementNotFound = errors.New("movement not found")

	// ErrReceivableNotFound is returned for unknown receivable IDs.
	ErrReceivableNotFound = errors.New("receivable not found")

	// ErrConditionNotFound is returned for unknown payment condition IDs.
	ErrConditionNotFound = errors.New("payment condition not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError is a user-facing business-rule violation, caught before
// any computation or I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PartialWriteError reports a child-record creation that failed after the
// parent (and possibly some siblings) were already persisted. There is no
// rollback; CreatedChildren tells the operator what made it in.
type PartialWriteError struct {
	ParentID        string
	CreatedChildren int
	TotalChildren   int
	Err             error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write for parent %s: %d of %d children created: %v",
		e.ParentID, e.CreatedChildren, e.TotalChildren, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkOrderNotFound) ||
		errors.Is(err, ErrMovementNotFound) ||
		errors.Is(err, ErrReceivableNotFound) ||
		errors.Is(err, ErrConditionNotFound)
}
