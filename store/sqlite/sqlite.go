/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements ledger.Store and ledger.SettlementStore plus the catalog
  tables the API needs (payment conditions, work orders, employees) and
  the stored aging reports. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  work_orders:        Originating documents, with the processed flag
  payment_conditions: Reusable installment rules (the catalog)
  movements:          Parent records of generated receivable sets
  receivables:        Child installment records (one row per parcela)
  employees:          Advance recipients with salary base values
  advance_batches:    Parent records of payroll-advance generations
  advances:           Child advance records
  reports:            Stored receivables-aging reports

AMOUNT STORAGE:
  Amounts are stored as INTEGER cents, never floating point. Dates are
  ISO day strings, timestamps RFC3339.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode for
  better read concurrency and crash recovery.

NO CROSS-RECORD TRANSACTIONS:
  Each Create* call is an independent statement on purpose: the Writer's
  contract is sequential parent-then-children creation with no rollback.

USAGE:
  store, err := sqlite.New("./data/finance.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()
  writer := ledger.NewWriter(store)

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Originating documents
	CREATE TABLE IF NOT EXISTS work_orders (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL,
		customer_name TEXT,
		opened_at TEXT NOT NULL,
		total_cents INTEGER NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_work_orders_number
		ON work_orders(number);

	-- Payment condition catalog
	CREATE TABLE IF NOT EXISTS payment_conditions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		installments INTEGER,
		interval_days INTEGER,
		created_at TEXT NOT NULL
	);

	-- Parent records of generated receivable sets
	CREATE TABLE IF NOT EXISTS movements (
		id TEXT PRIMARY KEY,
		work_order_id TEXT NOT NULL,
		description TEXT,
		total_cents INTEGER NOT NULL,
		competencia TEXT NOT NULL,
		installments INTEGER NOT NULL,
		condition_id TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_movements_work_order
		ON movements(work_order_id);

	-- Child installment records
	CREATE TABLE IF NOT EXISTS receivables (
		id TEXT PRIMARY KEY,
		movement_id TEXT NOT NULL,
		sequence INTEGER NOT NULL,
		due_date TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		paid_at TEXT,
		created_at TEXT NOT NULL,
		UNIQUE(movement_id, sequence)
	);

	CREATE INDEX IF NOT EXISTS idx_receivables_movement
		ON receivables(movement_id, sequence);
	CREATE INDEX IF NOT EXISTS idx_receivables_status_due
		ON receivables(status, due_date);

	-- Advance recipients
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		salary_cents INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	-- Parent records of payroll-advance generations
	CREATE TABLE IF NOT EXISTS advance_batches (
		id TEXT PRIMARY KEY,
		competencia TEXT NOT NULL,
		percentage TEXT NOT NULL,
		anchor TEXT NOT NULL,
		total_cents INTEGER NOT NULL,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	-- Child advance records
	CREATE TABLE IF NOT EXISTS advances (
		id TEXT PRIMARY KEY,
		batch_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		employee_name TEXT,
		base_cents INTEGER NOT NULL,
		amount_cents INTEGER NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_advances_batch
		ON advances(batch_id);
	CREATE INDEX IF NOT EXISTS idx_advances_employee
		ON advances(employee_id);

	-- Stored aging reports
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		body TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_generated
		ON reports(generated_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORK ORDERS
// =============================================================================

// CreateWorkOrder persists a work order.
func (s *Store) CreateWorkOrder(ctx context.Context, wo ledger.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_orders (id, number, customer_name, opened_at, total_cents, processed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		wo.ID, wo.Number, wo.CustomerName, wo.OpenedAt.String(), wo.Total.Cents(),
		wo.Processed, wo.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// GetWorkOrder implements ledger.MovementStore.
func (s *Store) GetWorkOrder(ctx context.Context, id string) (*ledger.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, number, customer_name, opened_at, total_cents, processed, created_at
		FROM work_orders WHERE id = ?`, id)

	wo, err := scanWorkOrder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", id, ledger.ErrWorkOrderNotFound)
	}
	if err != nil {
		return nil, err
	}
	return wo, nil
}

// ListWorkOrders returns all work orders, newest first.
func (s *Store) ListWorkOrders(ctx context.Context) ([]ledger.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, customer_name, opened_at, total_cents, processed, created_at
		FROM work_orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []ledger.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *wo)
	}
	return orders, rows.Err()
}

// MarkWorkOrderProcessed implements ledger.MovementStore.
func (s *Store) MarkWorkOrderProcessed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE work_orders SET processed = TRUE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ledger.ErrWorkOrderNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkOrder(row rowScanner) (*ledger.WorkOrder, error) {
	var wo ledger.WorkOrder
	var openedAt, createdAt string
	var cents int64
	if err := row.Scan(&wo.ID, &wo.Number, &wo.CustomerName, &openedAt, &cents, &wo.Processed, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if wo.OpenedAt, err = schedule.ParseDate(openedAt); err != nil {
		return nil, err
	}
	wo.Total = money.FromCents(cents)
	wo.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &wo, nil
}

// =============================================================================
// PAYMENT CONDITION CATALOG
// =============================================================================

// SaveCondition upserts a payment condition.
func (s *Store) SaveCondition(ctx context.Context, c schedule.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_conditions (id, name, kind, installments, interval_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			installments = excluded.installments,
			interval_days = excluded.interval_days`,
		c.ID, c.Name, string(c.Kind), nullInt(c.Installments), nullInt(c.IntervalDays),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetCondition loads a payment condition by ID.
func (s *Store) GetCondition(ctx context.Context, id string) (*schedule.Condition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, kind, installments, interval_days
		FROM payment_conditions WHERE id = ?`, id)

	c, err := scanCondition(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", id, ledger.ErrConditionNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListConditions returns the catalog ordered by name.
func (s *Store) ListConditions(ctx context.Context) ([]schedule.Condition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, installments, interval_days
		FROM payment_conditions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conditions []schedule.Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, *c)
	}
	return conditions, rows.Err()
}

func scanCondition(row rowScanner) (*schedule.Condition, error) {
	var c schedule.Condition
	var kind string
	var installments, interval sql.NullInt64
	if err := row.Scan(&c.ID, &c.Name, &kind, &installments, &interval); err != nil {
		return nil, err
	}
	c.Kind = schedule.Kind(kind)
	if installments.Valid {
		c.Installments = schedule.IntPtr(int(installments.Int64))
	}
	if interval.Valid {
		c.IntervalDays = schedule.IntPtr(int(interval.Int64))
	}
	return &c, nil
}

// =============================================================================
// MOVEMENTS AND RECEIVABLES (ledger.MovementStore)
// =============================================================================

// CreateMovement persists a parent movement record.
func (s *Store) CreateMovement(ctx context.Context, m ledger.FinancialMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO movements (id, work_order_id, description, total_cents, competencia, installments, condition_id, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.WorkOrderID, m.Description, m.Total.Cents(), m.Competencia.String(),
		m.Installments, nullString(m.ConditionID), m.CreatedBy,
		m.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// GetMovement loads a movement by ID.
func (s *Store) GetMovement(ctx context.Context, id string) (*ledger.FinancialMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, work_order_id, description, total_cents, competencia, installments, condition_id, created_by, created_at
		FROM movements WHERE id = ?`, id)

	var m ledger.FinancialMovement
	var competencia, createdAt string
	var conditionID sql.NullString
	var cents int64
	err := row.Scan(&m.ID, &m.WorkOrderID, &m.Description, &cents, &competencia,
		&m.Installments, &conditionID, &m.CreatedBy, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", id, ledger.ErrMovementNotFound)
	}
	if err != nil {
		return nil, err
	}
	m.Total = money.FromCents(cents)
	if m.Competencia, err = schedule.ParseYearMonth(competencia); err != nil {
		return nil, err
	}
	m.ConditionID = conditionID.String
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &m, nil
}

// CreateReceivable persists one child receivable.
func (s *Store) CreateReceivable(ctx context.Context, r ledger.Receivable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO receivables (id, movement_id, sequence, due_date, amount_cents, status, paid_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.MovementID, r.Sequence, r.DueDate.String(), r.Amount.Cents(),
		string(r.Status), nullDate(r.PaidAt), r.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// ReceivablesByMovement returns a movement's children in sequence order.
func (s *Store) ReceivablesByMovement(ctx context.Context, movementID string) ([]ledger.Receivable, error) {
	return s.queryReceivables(ctx, `
		SELECT id, movement_id, sequence, due_date, amount_cents, status, paid_at, created_at
		FROM receivables WHERE movement_id = ? ORDER BY sequence`, movementID)
}

// ListReceivables returns receivables, optionally filtered by status,
// ordered by due date.
func (s *Store) ListReceivables(ctx context.Context, status schedule.Status) ([]ledger.Receivable, error) {
	if status == "" {
		return s.queryReceivables(ctx, `
			SELECT id, movement_id, sequence, due_date, amount_cents, status, paid_at, created_at
			FROM receivables ORDER BY due_date`)
	}
	return s.queryReceivables(ctx, `
		SELECT id, movement_id, sequence, due_date, amount_cents, status, paid_at, created_at
		FROM receivables WHERE status = ? ORDER BY due_date`, string(status))
}

// ListOpenReceivablesDueBefore returns pending receivables with a due
// date strictly before cutoff. Used by the aging reporter.
func (s *Store) ListOpenReceivablesDueBefore(ctx context.Context, cutoff schedule.Date) ([]ledger.Receivable, error) {
	return s.queryReceivables(ctx, `
		SELECT id, movement_id, sequence, due_date, amount_cents, status, paid_at, created_at
		FROM receivables WHERE status = 'pending' AND due_date < ? ORDER BY due_date`,
		cutoff.String())
}

func (s *Store) queryReceivables(ctx context.Context, query string, args ...any) ([]ledger.Receivable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receivables []ledger.Receivable
	for rows.Next() {
		var r ledger.Receivable
		var dueDate, createdAt string
		var paidAt sql.NullString
		var status string
		var cents int64
		if err := rows.Scan(&r.ID, &r.MovementID, &r.Sequence, &dueDate, &cents, &status, &paidAt, &createdAt); err != nil {
			return nil, err
		}
		if r.DueDate, err = schedule.ParseDate(dueDate); err != nil {
			return nil, err
		}
		r.Amount = money.FromCents(cents)
		r.Status = schedule.Status(status)
		if paidAt.Valid {
			d, err := schedule.ParseDate(paidAt.String)
			if err != nil {
				return nil, err
			}
			r.PaidAt = &d
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		receivables = append(receivables, r)
	}
	return receivables, rows.Err()
}

// SetReceivableStatus implements ledger.SettlementStore.
func (s *Store) SetReceivableStatus(ctx context.Context, id string, status schedule.Status, paidAt *schedule.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE receivables SET status = ?, paid_at = ? WHERE id = ?`,
		string(status), nullDate(paidAt), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id, ledger.ErrReceivableNotFound)
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee upserts an employee.
func (s *Store) SaveEmployee(ctx context.Context, e ledger.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, salary_cents, active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			salary_cents = excluded.salary_cents,
			active = excluded.active`,
		e.ID, e.Name, e.Salary.Cents(), e.Active,
		e.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]ledger.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, salary_cents, active, created_at
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []ledger.Employee
	for rows.Next() {
		var e ledger.Employee
		var cents int64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &cents, &e.Active, &createdAt); err != nil {
			return nil, err
		}
		e.Salary = money.FromCents(cents)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// ADVANCE BATCHES (ledger.PayrollStore)
// =============================================================================

// CreateAdvanceBatch persists a parent batch record.
func (s *Store) CreateAdvanceBatch(ctx context.Context, b ledger.AdvanceBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO advance_batches (id, competencia, percentage, anchor, total_cents, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Competencia.String(), b.Percentage.String(), b.Anchor.String(),
		b.Total.Cents(), b.CreatedBy, b.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// CreateAdvance persists one child advance.
func (s *Store) CreateAdvance(ctx context.Context, a ledger.Advance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO advances (id, batch_id, employee_id, employee_name, base_cents, amount_cents, due_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.BatchID, a.EmployeeID, a.EmployeeName, a.BaseValue.Cents(),
		a.Amount.Cents(), a.DueDate.String(), string(a.Status),
		a.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// AdvancesByBatch returns a batch's children.
func (s *Store) AdvancesByBatch(ctx context.Context, batchID string) ([]ledger.Advance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, employee_id, employee_name, base_cents, amount_cents, due_date, status, created_at
		FROM advances WHERE batch_id = ? ORDER BY employee_name`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advances []ledger.Advance
	for rows.Next() {
		var a ledger.Advance
		var baseCents, amountCents int64
		var dueDate, status, createdAt string
		if err := rows.Scan(&a.ID, &a.BatchID, &a.EmployeeID, &a.EmployeeName,
			&baseCents, &amountCents, &dueDate, &status, &createdAt); err != nil {
			return nil, err
		}
		a.BaseValue = money.FromCents(baseCents)
		a.Amount = money.FromCents(amountCents)
		if a.DueDate, err = schedule.ParseDate(dueDate); err != nil {
			return nil, err
		}
		a.Status = schedule.Status(status)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

// ListAdvanceBatches returns all batches, newest first.
func (s *Store) ListAdvanceBatches(ctx context.Context) ([]ledger.AdvanceBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, competencia, percentage, anchor, total_cents, created_by, created_at
		FROM advance_batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []ledger.AdvanceBatch
	for rows.Next() {
		var b ledger.AdvanceBatch
		var competencia, percentage, anchor, createdAt string
		var cents int64
		if err := rows.Scan(&b.ID, &competencia, &percentage, &anchor, &cents, &b.CreatedBy, &createdAt); err != nil {
			return nil, err
		}
		if b.Competencia, err = schedule.ParseYearMonth(competencia); err != nil {
			return nil, err
		}
		if b.Percentage, err = decimal.NewFromString(percentage); err != nil {
			return nil, err
		}
		if b.Anchor, err = schedule.ParseDate(anchor); err != nil {
			return nil, err
		}
		b.Total = money.FromCents(cents)
		b.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// =============================================================================
// REPORTS
// =============================================================================

// ReportRecord is a stored aging report.
type ReportRecord struct {
	ID          string
	GeneratedAt time.Time
	Body        string
}

// SaveReport stores a generated report.
func (s *Store) SaveReport(ctx context.Context, r ReportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, generated_at, body) VALUES (?, ?, ?)`,
		r.ID, r.GeneratedAt.UTC().Format(time.RFC3339), r.Body)
	return err
}

// LatestReport returns the most recent report, or nil if none exists.
func (s *Store) LatestReport(ctx context.Context) (*ReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, generated_at, body FROM reports ORDER BY generated_at DESC LIMIT 1`)

	var r ReportRecord
	var generatedAt string
	err := row.Scan(&r.ID, &generatedAt, &r.Body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
	return &r, nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Dev/demo only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"work_orders", "payment_conditions", "movements",
		"receivables", "employees", "advance_batches", "advances", "reports"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullDate(d *schedule.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
