package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testWorkOrder(id string) ledger.WorkOrder {
	return ledger.WorkOrder{
		ID:           id,
		Number:       "OS-" + id,
		CustomerName: "Acme",
		OpenedAt:     schedule.NewDate(2024, time.January, 15),
		Total:        money.MustParse("1000.00"),
		CreatedAt:    time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// WORK ORDERS
// =============================================================================

func TestWorkOrderRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateWorkOrder(ctx, testWorkOrder("wo-1")))

	got, err := store.GetWorkOrder(ctx, "wo-1")
	require.NoError(t, err)
	assert.Equal(t, "OS-wo-1", got.Number)
	assert.Equal(t, "Acme", got.CustomerName)
	assert.Equal(t, "2024-01-15", got.OpenedAt.String())
	assert.Equal(t, "1000.00", got.Total.String())
	assert.False(t, got.Processed)
}

func TestWorkOrderNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetWorkOrder(context.Background(), "nope")
	assert.ErrorIs(t, err, ledger.ErrWorkOrderNotFound)
	assert.True(t, ledger.IsNotFound(err))
}

func TestMarkWorkOrderProcessed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateWorkOrder(ctx, testWorkOrder("wo-1")))
	require.NoError(t, store.MarkWorkOrderProcessed(ctx, "wo-1"))

	got, err := store.GetWorkOrder(ctx, "wo-1")
	require.NoError(t, err)
	assert.True(t, got.Processed)

	// Unknown IDs are reported, not silently ignored.
	err = store.MarkWorkOrderProcessed(ctx, "nope")
	assert.ErrorIs(t, err, ledger.ErrWorkOrderNotFound)
}

// =============================================================================
// PAYMENT CONDITION CATALOG
// =============================================================================

func TestConditionNullableFields(t *testing.T) {
	// GIVEN: a condition with neither installments nor interval set
	// WHEN: saved and loaded
	// THEN: the optional fields come back nil, not zero
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCondition(ctx, schedule.Condition{
		ID:   "cond-avista",
		Name: "À vista",
		Kind: schedule.KindImmediate,
	}))

	got, err := store.GetCondition(ctx, "cond-avista")
	require.NoError(t, err)
	assert.Nil(t, got.Installments)
	assert.Nil(t, got.IntervalDays)
	assert.Equal(t, schedule.KindImmediate, got.Kind)
}

func TestConditionUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := schedule.Condition{
		ID:           "cond-3x",
		Name:         "3x 30 dias",
		Kind:         schedule.KindInstallment,
		Installments: schedule.IntPtr(3),
		IntervalDays: schedule.IntPtr(30),
	}
	require.NoError(t, store.SaveCondition(ctx, c))

	c.Name = "3x sem juros"
	c.Installments = schedule.IntPtr(4)
	require.NoError(t, store.SaveCondition(ctx, c))

	got, err := store.GetCondition(ctx, "cond-3x")
	require.NoError(t, err)
	assert.Equal(t, "3x sem juros", got.Name)
	require.NotNil(t, got.Installments)
	assert.Equal(t, 4, *got.Installments)

	all, err := store.ListConditions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must not duplicate rows")
}

func TestConditionNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCondition(context.Background(), "nope")
	assert.ErrorIs(t, err, ledger.ErrConditionNotFound)
}

// =============================================================================
// MOVEMENTS AND RECEIVABLES
// =============================================================================

func seedMovementWithReceivables(t *testing.T, store *Store) ledger.FinancialMovement {
	t.Helper()
	ctx := context.Background()

	movement := ledger.FinancialMovement{
		ID:           "mov-1",
		WorkOrderID:  "wo-1",
		Description:  "Receivables for work order OS-wo-1",
		Total:        money.MustParse("1000.00"),
		Competencia:  schedule.YearMonth{Year: 2024, Month: time.January},
		Installments: 3,
		ConditionID:  "cond-3x",
		CreatedBy:    "tester",
		CreatedAt:    time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateMovement(ctx, movement))

	amounts := []string{"333.33", "333.33", "333.34"}
	due := schedule.NewDate(2024, time.February, 14)
	for i, amount := range amounts {
		require.NoError(t, store.CreateReceivable(ctx, ledger.Receivable{
			ID:         movement.ID + "-r" + string(rune('1'+i)),
			MovementID: movement.ID,
			Sequence:   i + 1,
			DueDate:    due,
			Amount:     money.MustParse(amount),
			Status:     schedule.StatusPending,
			CreatedAt:  movement.CreatedAt,
		}))
		due = due.AddMonths(1)
	}
	return movement
}

func TestMovementAndReceivablesRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	movement := seedMovementWithReceivables(t, store)

	got, err := store.GetMovement(ctx, movement.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", got.Competencia.String())
	assert.Equal(t, "cond-3x", got.ConditionID)
	assert.Equal(t, "1000.00", got.Total.String())

	children, err := store.ReceivablesByMovement(ctx, movement.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{children[0].Sequence, children[1].Sequence, children[2].Sequence})
	assert.Equal(t, "333.34", children[2].Amount.String())
	assert.Equal(t, "2024-04-14", children[2].DueDate.String())
	for _, r := range children {
		assert.Nil(t, r.PaidAt)
	}
}

func TestMovementNullableCondition(t *testing.T) {
	// Degenerate single-installment plans carry no condition ID.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateMovement(ctx, ledger.FinancialMovement{
		ID:           "mov-1",
		WorkOrderID:  "wo-1",
		Total:        money.MustParse("100.00"),
		Competencia:  schedule.YearMonth{Year: 2024, Month: time.March},
		Installments: 1,
		CreatedAt:    time.Now().UTC(),
	}))

	got, err := store.GetMovement(ctx, "mov-1")
	require.NoError(t, err)
	assert.Empty(t, got.ConditionID)
}

func TestDuplicateSequenceRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	movement := seedMovementWithReceivables(t, store)

	err := store.CreateReceivable(ctx, ledger.Receivable{
		ID:         "dup",
		MovementID: movement.ID,
		Sequence:   1,
		DueDate:    schedule.NewDate(2024, time.May, 1),
		Amount:     money.MustParse("1.00"),
		Status:     schedule.StatusPending,
		CreatedAt:  time.Now().UTC(),
	})
	assert.Error(t, err, "UNIQUE(movement_id, sequence) must hold")
}

func TestListReceivablesByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	movement := seedMovementWithReceivables(t, store)

	children, err := store.ReceivablesByMovement(ctx, movement.ID)
	require.NoError(t, err)

	paidAt := schedule.NewDate(2024, time.February, 20)
	require.NoError(t, store.SetReceivableStatus(ctx, children[0].ID, schedule.StatusPaid, &paidAt))

	pending, err := store.ListReceivables(ctx, schedule.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	paid, err := store.ListReceivables(ctx, schedule.StatusPaid)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	require.NotNil(t, paid[0].PaidAt)
	assert.Equal(t, "2024-02-20", paid[0].PaidAt.String())

	all, err := store.ListReceivables(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListOpenReceivablesDueBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedMovementWithReceivables(t, store)

	// Due dates: 2024-02-14, 2024-03-14, 2024-04-14. Cutoff is exclusive.
	overdue, err := store.ListOpenReceivablesDueBefore(ctx, schedule.NewDate(2024, time.March, 14))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "2024-02-14", overdue[0].DueDate.String())
}

func TestSetReceivableStatusNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.SetReceivableStatus(context.Background(), "nope", schedule.StatusCancelled, nil)
	assert.ErrorIs(t, err, ledger.ErrReceivableNotFound)
}

// =============================================================================
// EMPLOYEES AND ADVANCES
// =============================================================================

func TestEmployeeUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := ledger.Employee{
		ID:        "e1",
		Name:      "Ana",
		Salary:    money.MustParse("1500.00"),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveEmployee(ctx, e))

	e.Salary = money.MustParse("1600.00")
	e.Active = false
	require.NoError(t, store.SaveEmployee(ctx, e))

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "1600.00", employees[0].Salary.String())
	assert.False(t, employees[0].Active)
}

func TestAdvanceBatchRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := ledger.AdvanceBatch{
		ID:          "batch-1",
		Competencia: schedule.YearMonth{Year: 2024, Month: time.June},
		Percentage:  decimal.NewFromInt(40),
		Anchor:      schedule.NewDate(2024, time.June, 5),
		Total:       money.MustParse("1480.00"),
		CreatedBy:   "rh",
		CreatedAt:   time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateAdvanceBatch(ctx, batch))

	require.NoError(t, store.CreateAdvance(ctx, ledger.Advance{
		ID:           "adv-1",
		BatchID:      batch.ID,
		EmployeeID:   "e1",
		EmployeeName: "Ana",
		BaseValue:    money.MustParse("1500.00"),
		Amount:       money.MustParse("600.00"),
		DueDate:      batch.Anchor,
		Status:       schedule.StatusPending,
		CreatedAt:    batch.CreatedAt,
	}))

	batches, err := store.ListAdvanceBatches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].Percentage.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "2024-06", batches[0].Competencia.String())
	assert.Equal(t, "1480.00", batches[0].Total.String())

	advances, err := store.AdvancesByBatch(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, advances, 1)
	assert.Equal(t, "600.00", advances[0].Amount.String())
	assert.Equal(t, "2024-06-05", advances[0].DueDate.String())
}

// =============================================================================
// REPORTS AND MAINTENANCE
// =============================================================================

func TestLatestReport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No report yet: nil, not an error.
	got, err := store.LatestReport(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.SaveReport(ctx, ReportRecord{
		ID:          "r1",
		GeneratedAt: time.Date(2024, time.June, 1, 6, 0, 0, 0, time.UTC),
		Body:        `{"buckets":[]}`,
	}))
	require.NoError(t, store.SaveReport(ctx, ReportRecord{
		ID:          "r2",
		GeneratedAt: time.Date(2024, time.June, 2, 6, 0, 0, 0, time.UTC),
		Body:        `{"buckets":[]}`,
	}))

	got, err = store.LatestReport(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "r2", got.ID)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateWorkOrder(ctx, testWorkOrder("wo-1")))
	seedMovementWithReceivables(t, store)

	require.NoError(t, store.Reset(ctx))

	orders, err := store.ListWorkOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	receivables, err := store.ListReceivables(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, receivables)
}
