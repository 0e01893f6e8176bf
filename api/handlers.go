/*
handlers.go - HTTP API handlers for the installment engine

PURPOSE:
  Exposes the scheduling, allocation, and ledger-writing flows via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  the domain packages.

ENDPOINTS:
  Work orders / receivables flow:
    GET    /api/work-orders                        List work orders
    POST   /api/work-orders                        Create work order
    GET    /api/work-orders/{id}                   Get work order
    POST   /api/work-orders/{id}/financial/preview Compute plan, no persist
    POST   /api/work-orders/{id}/financial         Persist plan (confirm)
    GET    /api/movements/{id}                     Movement with children
    GET    /api/receivables?status=                List receivables
    POST   /api/receivables/{id}/settle            Mark paid
    POST   /api/receivables/{id}/cancel            Mark cancelled

  Payroll advance flow:
    GET    /api/employees                          List employees
    POST   /api/employees                          Create employee
    POST   /api/advances/preview                   Compute allocations
    POST   /api/advances                           Persist batch (confirm)

  Catalog, reports, presets:
    GET/POST /api/conditions
    GET      /api/reports/latest     POST /api/reports/run
    GET/PUT  /api/presets

ERROR HANDLING:
  - 400: validation errors, invalid arguments, broken hand-edits
  - 404: unknown work order / movement / receivable
  - 409: work order already financially processed
  - 500: store failures (including partial writes, with details)

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - reporter.go: Background aging reporter
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordena/finance-engine/allocate"
	"github.com/ordena/finance-engine/config"
	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
	"github.com/ordena/finance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Writer   *ledger.Writer
	Presets  *config.PresetStore
	Reporter *AgingReporter
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, presets *config.PresetStore) *Handler {
	return &Handler{
		Store:   store,
		Writer:  ledger.NewWriter(store),
		Presets: presets,
	}
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// WORK ORDER HANDLERS
// =============================================================================

// ListWorkOrders returns all work orders.
func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListWorkOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list work orders", err)
		return
	}
	dtos := make([]WorkOrderDTO, 0, len(orders))
	for _, wo := range orders {
		dtos = append(dtos, toWorkOrderDTO(wo))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorkOrder creates a work order.
func (h *Handler) CreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Number == "" {
		writeError(w, http.StatusBadRequest, "number is required", nil)
		return
	}
	openedAt, err := schedule.ParseDate(req.OpenedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid opened_at", err)
		return
	}
	total, err := money.Parse(req.Total)
	if err != nil || total.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid total", err)
		return
	}

	wo := ledger.WorkOrder{
		ID:           uuid.NewString(),
		Number:       req.Number,
		CustomerName: req.CustomerName,
		OpenedAt:     openedAt,
		Total:        total,
		CreatedAt:    nowUTC(),
	}
	if err := h.Store.CreateWorkOrder(r.Context(), wo); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create work order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkOrderDTO(wo))
}

// GetWorkOrder returns one work order.
func (h *Handler) GetWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.Store.GetWorkOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkOrderDTO(*wo))
}

// =============================================================================
// FINANCIAL GENERATION HANDLERS
// =============================================================================

// resolveCondition loads the payment condition for a request. An empty
// or unresolvable condition ID yields nil: the degenerate plan (one
// installment due on the anchor) takes over.
func (h *Handler) resolveCondition(r *http.Request, conditionID string) *schedule.Condition {
	if conditionID == "" {
		return nil
	}
	cond, err := h.Store.GetCondition(r.Context(), conditionID)
	if err != nil {
		log.Printf("condition %s not resolved, falling back to single installment: %v", conditionID, err)
		return nil
	}
	return cond
}

// PreviewFinancial computes the installment plan for a work order
// without persisting anything. The user hand-edits from here.
func (h *Handler) PreviewFinancial(w http.ResponseWriter, r *http.Request) {
	var req GenerateFinancialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	wo, err := h.Store.GetWorkOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	plan, err := schedule.Generate(wo.Total, wo.OpenedAt, h.resolveCondition(r, req.ConditionID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// GenerateFinancial confirms a generation: recomputes the plan, applies
// any hand-edited amounts, and persists parent + children.
func (h *Handler) GenerateFinancial(w http.ResponseWriter, r *http.Request) {
	var req GenerateFinancialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	workOrderID := chi.URLParam(r, "id")
	wo, err := h.Store.GetWorkOrder(r.Context(), workOrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cond := h.resolveCondition(r, req.ConditionID)
	plan, err := schedule.Generate(wo.Total, wo.OpenedAt, cond)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if len(req.Amounts) > 0 {
		amounts := make([]money.Amount, 0, len(req.Amounts))
		for _, s := range req.Amounts {
			a, err := money.Parse(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid installment amount", err)
				return
			}
			amounts = append(amounts, a)
		}
		if err := plan.ApplyOverrides(amounts); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	var competencia schedule.YearMonth
	if req.Competencia != "" {
		if competencia, err = schedule.ParseYearMonth(req.Competencia); err != nil {
			writeError(w, http.StatusBadRequest, "invalid competencia", err)
			return
		}
	}

	conditionID := ""
	if cond != nil {
		conditionID = cond.ID
	}
	movement, receivables, err := h.Writer.WriteReceivables(r.Context(), ledger.ReceivableRequest{
		WorkOrderID: workOrderID,
		Plan:        plan,
		ConditionID: conditionID,
		Competencia: competencia,
		Description: req.Description,
		Actor:       req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMovementDTO(*movement, receivables))
}

// GetMovement returns a movement with its receivables.
func (h *Handler) GetMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	movement, err := h.Store.GetMovement(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	receivables, err := h.Store.ReceivablesByMovement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load receivables", err)
		return
	}
	writeJSON(w, http.StatusOK, toMovementDTO(*movement, receivables))
}

// ListReceivables lists receivables, optionally filtered by status.
func (h *Handler) ListReceivables(w http.ResponseWriter, r *http.Request) {
	status := schedule.Status(r.URL.Query().Get("status"))
	receivables, err := h.Store.ListReceivables(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list receivables", err)
		return
	}
	dtos := make([]ReceivableDTO, 0, len(receivables))
	for _, rec := range receivables {
		dtos = append(dtos, toReceivableDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SettleReceivable marks a receivable paid.
func (h *Handler) SettleReceivable(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if r.Body != nil {
		// Body is optional; default payment date is today.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	paidAt := schedule.Today()
	if req.PaidAt != "" {
		var err error
		if paidAt, err = schedule.ParseDate(req.PaidAt); err != nil {
			writeError(w, http.StatusBadRequest, "invalid paid_at", err)
			return
		}
	}

	id := chi.URLParam(r, "id")
	if err := h.Store.SetReceivableStatus(r.Context(), id, schedule.StatusPaid, &paidAt); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(schedule.StatusPaid)})
}

// CancelReceivable marks a receivable cancelled.
func (h *Handler) CancelReceivable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.SetReceivableStatus(r.Context(), id, schedule.StatusCancelled, nil); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(schedule.StatusCancelled)})
}

// =============================================================================
// PAYMENT CONDITION HANDLERS
// =============================================================================

// ListConditions returns the payment condition catalog.
func (h *Handler) ListConditions(w http.ResponseWriter, r *http.Request) {
	conditions, err := h.Store.ListConditions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list conditions", err)
		return
	}
	dtos := make([]ConditionDTO, 0, len(conditions))
	for _, c := range conditions {
		dtos = append(dtos, toConditionDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCondition adds a payment condition to the catalog.
func (h *Handler) CreateCondition(w http.ResponseWriter, r *http.Request) {
	var req ConditionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	kind := schedule.Kind(req.Kind)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid kind", nil)
		return
	}
	if req.Installments != nil && *req.Installments <= 0 {
		writeError(w, http.StatusBadRequest, "installments must be >= 1", nil)
		return
	}
	if req.IntervalDays != nil && *req.IntervalDays < 0 {
		writeError(w, http.StatusBadRequest, "interval_days must be >= 0", nil)
		return
	}

	cond := schedule.Condition{
		ID:           req.ID,
		Name:         req.Name,
		Kind:         kind,
		Installments: req.Installments,
		IntervalDays: req.IntervalDays,
	}
	if cond.ID == "" {
		cond.ID = uuid.NewString()
	}
	if err := h.Store.SaveCondition(r.Context(), cond); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save condition", err)
		return
	}
	writeJSON(w, http.StatusCreated, toConditionDTO(cond))
}

// =============================================================================
// EMPLOYEE AND ADVANCE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	salary := money.Zero
	if req.Salary != "" {
		var err error
		if salary, err = money.Parse(req.Salary); err != nil {
			writeError(w, http.StatusBadRequest, "invalid salary", err)
			return
		}
	}

	emp := ledger.Employee{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Salary:    salary,
		Active:    true,
		CreatedAt: nowUTC(),
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// buildRecipients loads employees and flags the requested ones selected.
func (h *Handler) buildRecipients(r *http.Request, employeeIDs []string) ([]allocate.Recipient, error) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		return nil, err
	}
	selected := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		selected[id] = true
	}

	recipients := make([]allocate.Recipient, 0, len(employees))
	for _, e := range employees {
		recipients = append(recipients, allocate.Recipient{
			ID:        e.ID,
			Name:      e.Name,
			BaseValue: e.Salary,
			Selected:  selected[e.ID] && e.Active,
		})
	}
	return recipients, nil
}

// PreviewAdvances computes the allocation set without persisting.
func (h *Handler) PreviewAdvances(w http.ResponseWriter, r *http.Request) {
	var req AdvanceBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	pct, err := decimal.NewFromString(req.Percentage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid percentage", err)
		return
	}
	recipients, err := h.buildRecipients(r, req.EmployeeIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employees", err)
		return
	}

	allocations, total, err := allocate.Batch{Percentage: pct, Recipients: recipients}.Compute()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := AdvancePreviewResponse{Total: total.String()}
	for _, a := range allocations {
		resp.Allocations = append(resp.Allocations, AllocationDTO{
			EmployeeID:   a.RecipientID,
			EmployeeName: a.RecipientName,
			BaseValue:    a.BaseValue.String(),
			Amount:       a.Amount.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateAdvances confirms an advance batch: validates preconditions,
// computes allocations, and persists parent + children.
func (h *Handler) CreateAdvances(w http.ResponseWriter, r *http.Request) {
	var req AdvanceBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	pct, err := decimal.NewFromString(req.Percentage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid percentage", err)
		return
	}

	var anchor schedule.Date
	if req.Anchor != "" {
		if anchor, err = schedule.ParseDate(req.Anchor); err != nil {
			writeError(w, http.StatusBadRequest, "invalid anchor", err)
			return
		}
	}
	var competencia schedule.YearMonth
	if req.Competencia != "" {
		if competencia, err = schedule.ParseYearMonth(req.Competencia); err != nil {
			writeError(w, http.StatusBadRequest, "invalid competencia", err)
			return
		}
	}

	recipients, err := h.buildRecipients(r, req.EmployeeIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load employees", err)
		return
	}

	batch, advances, err := h.Writer.WriteAdvances(r.Context(), ledger.AdvanceRequest{
		Competencia: competencia,
		Anchor:      anchor,
		Percentage:  pct,
		Recipients:  recipients,
		Actor:       req.Actor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBatchDTO(*batch, advances))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// LatestReport returns the most recently generated aging report.
func (h *Handler) LatestReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Store.LatestReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load report", err)
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "no report generated yet", nil)
		return
	}
	writeJSON(w, http.StatusOK, ReportDTO{
		ID:          report.ID,
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Body:        report.Body,
	})
}

// RunReport triggers an immediate report generation.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	if h.Reporter == nil {
		writeError(w, http.StatusServiceUnavailable, "reporter not configured", nil)
		return
	}
	report, err := h.Reporter.RunOnce(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report generation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ReportDTO{
		ID:          report.ID,
		GeneratedAt: report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Body:        report.Body,
	})
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// GetPresets returns the saved filters and date-range presets.
func (h *Handler) GetPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Presets.Get())
}

// PutPresets replaces the saved presets.
func (h *Handler) PutPresets(w http.ResponseWriter, r *http.Request) {
	var p config.Presets
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.Presets.Replace(p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save presets", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset wipes the database. Dev/demo only.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func nowUTC() time.Time { return time.Now().UTC() }

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	var rErr *schedule.ReconciliationError
	var pErr *ledger.PartialWriteError

	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message, nil)
	case errors.As(err, &rErr):
		writeError(w, http.StatusBadRequest, "edited amounts do not reconcile", rErr)
	case errors.Is(err, money.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid argument", err)
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		writeError(w, http.StatusConflict, "work order already processed", err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found", err)
	case errors.As(err, &pErr):
		writeError(w, http.StatusInternalServerError, "partial write, manual review required", pErr)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}
