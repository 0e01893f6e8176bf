package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordena/finance-engine/allocate"
	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/ledger/store"
	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func newTestWriter(t *testing.T) (*ledger.Writer, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return ledger.NewWriterWithClock(mem, fixedClock), mem
}

func seedWorkOrder(mem *store.Memory, id string, total string) ledger.WorkOrder {
	wo := ledger.WorkOrder{
		ID:       id,
		Number:   "OS-" + id,
		OpenedAt: schedule.NewDate(2024, time.January, 15),
		Total:    money.MustParse(total),
	}
	mem.PutWorkOrder(wo)
	return wo
}

func threeByThirty() *schedule.Condition {
	return &schedule.Condition{
		ID:           "cond-3x",
		Kind:         schedule.KindInstallment,
		Installments: schedule.IntPtr(3),
		IntervalDays: schedule.IntPtr(30),
	}
}

// =============================================================================
// RECEIVABLES FLOW
// =============================================================================

func TestWriteReceivables_ParentThenChildren(t *testing.T) {
	// GIVEN: an unprocessed work order and a 3-installment plan
	// WHEN: confirming the generation
	// THEN: one movement + three receivables exist, work order is processed
	writer, mem := newTestWriter(t)
	ctx := context.Background()
	wo := seedWorkOrder(mem, "wo-1", "1000.00")

	plan, err := schedule.Generate(wo.Total, wo.OpenedAt, threeByThirty())
	require.NoError(t, err)

	movement, receivables, err := writer.WriteReceivables(ctx, ledger.ReceivableRequest{
		WorkOrderID: wo.ID,
		Plan:        plan,
		ConditionID: "cond-3x",
		Actor:       "tester",
	})
	require.NoError(t, err)
	require.NotNil(t, movement)
	require.Len(t, receivables, 3)

	assert.Equal(t, wo.ID, movement.WorkOrderID)
	assert.Equal(t, 3, movement.Installments)
	assert.True(t, movement.Total.Equal(wo.Total))
	// Competencia defaults to the plan anchor's period.
	assert.Equal(t, "2024-01", movement.Competencia.String())

	var sum money.Amount
	for i, r := range receivables {
		assert.Equal(t, movement.ID, r.MovementID)
		assert.Equal(t, i+1, r.Sequence)
		assert.Equal(t, schedule.StatusPending, r.Status)
		sum = sum.Add(r.Amount)
	}
	assert.True(t, sum.Equal(wo.Total), "persisted receivables must preserve the sum invariant")

	stored, err := mem.GetWorkOrder(ctx, wo.ID)
	require.NoError(t, err)
	assert.True(t, stored.Processed)

	persisted, err := mem.ReceivablesByMovement(ctx, movement.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 3)
}

func TestWriteReceivables_RefusesDoubleSubmission(t *testing.T) {
	writer, mem := newTestWriter(t)
	ctx := context.Background()
	wo := seedWorkOrder(mem, "wo-1", "500.00")

	plan, err := schedule.Generate(wo.Total, wo.OpenedAt, nil)
	require.NoError(t, err)

	_, _, err = writer.WriteReceivables(ctx, ledger.ReceivableRequest{WorkOrderID: wo.ID, Plan: plan})
	require.NoError(t, err)

	// Second submission for the same work order is refused before any write.
	_, _, err = writer.WriteReceivables(ctx, ledger.ReceivableRequest{WorkOrderID: wo.ID, Plan: plan})
	assert.ErrorIs(t, err, ledger.ErrAlreadyProcessed)
}

func TestWriteReceivables_UnknownWorkOrder(t *testing.T) {
	writer, _ := newTestWriter(t)
	plan, err := schedule.Generate(money.MustParse("100.00"), schedule.NewDate(2024, time.January, 1), nil)
	require.NoError(t, err)

	_, _, err = writer.WriteReceivables(context.Background(), ledger.ReceivableRequest{
		WorkOrderID: "missing", Plan: plan,
	})
	assert.ErrorIs(t, err, ledger.ErrWorkOrderNotFound)
}

// failingStore fails child creation from a given call count onward.
type failingStore struct {
	*store.Memory
	failFrom int
	calls    int
}

func (f *failingStore) CreateReceivable(ctx context.Context, r ledger.Receivable) error {
	f.calls++
	if f.calls >= f.failFrom {
		return errors.New("store unavailable")
	}
	return f.Memory.CreateReceivable(ctx, r)
}

func TestWriteReceivables_PartialFailureLeavesEarlierChildren(t *testing.T) {
	// GIVEN: a store that fails on the third child creation
	// WHEN: persisting a 3-installment plan
	// THEN: the parent and two children stay persisted, the error says so,
	//       and the work order is NOT marked processed
	mem := store.NewMemory()
	failing := &failingStore{Memory: mem, failFrom: 3}
	writer := ledger.NewWriterWithClock(failing, fixedClock)
	ctx := context.Background()
	wo := seedWorkOrder(mem, "wo-1", "1000.00")

	plan, err := schedule.Generate(wo.Total, wo.OpenedAt, threeByThirty())
	require.NoError(t, err)

	movement, created, err := writer.WriteReceivables(ctx, ledger.ReceivableRequest{
		WorkOrderID: wo.ID, Plan: plan,
	})

	var pErr *ledger.PartialWriteError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, 2, pErr.CreatedChildren)
	assert.Equal(t, 3, pErr.TotalChildren)
	require.NotNil(t, movement)
	assert.Equal(t, movement.ID, pErr.ParentID)
	assert.Len(t, created, 2)

	// No rollback: earlier children remain.
	persisted, err := mem.ReceivablesByMovement(ctx, movement.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)

	stored, err := mem.GetWorkOrder(ctx, wo.ID)
	require.NoError(t, err)
	assert.False(t, stored.Processed, "a failed generation must leave the work order retryable")
}

// =============================================================================
// PAYROLL ADVANCE FLOW
// =============================================================================

func advanceRequest() ledger.AdvanceRequest {
	return ledger.AdvanceRequest{
		Competencia: schedule.YearMonth{Year: 2024, Month: time.June},
		Anchor:      schedule.NewDate(2024, time.June, 5),
		Percentage:  decimal.NewFromInt(40),
		Recipients: []allocate.Recipient{
			{ID: "e1", Name: "Ana", BaseValue: money.MustParse("1500.00"), Selected: true},
			{ID: "e2", Name: "Bruno", BaseValue: money.MustParse("2200.00"), Selected: true},
			{ID: "e3", Name: "Carla", BaseValue: money.MustParse("9000.00"), Selected: false},
		},
		Actor: "rh",
	}
}

func TestWriteAdvances_PersistsSelectedOnly(t *testing.T) {
	writer, mem := newTestWriter(t)
	ctx := context.Background()

	batch, advances, err := writer.WriteAdvances(ctx, advanceRequest())
	require.NoError(t, err)
	require.Len(t, advances, 2, "unselected employees must be excluded")

	assert.Equal(t, "600.00", advances[0].Amount.String())
	assert.Equal(t, "880.00", advances[1].Amount.String())
	assert.Equal(t, "1480.00", batch.Total.String())
	for _, a := range advances {
		assert.Equal(t, batch.ID, a.BatchID)
		assert.True(t, a.DueDate.Equal(batch.Anchor))
		assert.Equal(t, schedule.StatusPending, a.Status)
	}

	persisted, err := mem.AdvancesByBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestWriteAdvances_PreconditionsRefusedBeforeIO(t *testing.T) {
	writer, mem := newTestWriter(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ledger.AdvanceRequest)
		field  string
	}{
		{"missing anchor", func(r *ledger.AdvanceRequest) { r.Anchor = schedule.Date{} }, "anchor"},
		{"missing competencia", func(r *ledger.AdvanceRequest) { r.Competencia = schedule.YearMonth{} }, "competencia"},
		{"nobody selected", func(r *ledger.AdvanceRequest) {
			for i := range r.Recipients {
				r.Recipients[i].Selected = false
			}
		}, "recipients"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := advanceRequest()
			tc.mutate(&req)

			_, _, err := writer.WriteAdvances(ctx, req)
			var vErr *ledger.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	// Validation failures must not have written anything.
	batches, err := mem.AdvancesByBatch(ctx, "any")
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestWriteAdvances_InvalidPercentage(t *testing.T) {
	writer, _ := newTestWriter(t)
	req := advanceRequest()
	req.Percentage = decimal.NewFromInt(120)

	_, _, err := writer.WriteAdvances(context.Background(), req)
	assert.ErrorIs(t, err, money.ErrInvalidArgument)
}
