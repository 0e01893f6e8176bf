/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Amounts cross
  the boundary as decimal strings ("333.34"), never floats; dates as ISO
  day strings; competência as "2006-01".

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers and the domain packages, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/schedule"
)

// =============================================================================
// WORK ORDERS
// =============================================================================

// WorkOrderDTO represents a work order in API responses.
type WorkOrderDTO struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	CustomerName string `json:"customer_name,omitempty"`
	OpenedAt     string `json:"opened_at"`
	Total        string `json:"total"`
	Processed    bool   `json:"processed"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CreateWorkOrderRequest is the request to create a work order.
type CreateWorkOrderRequest struct {
	Number       string `json:"number"`
	CustomerName string `json:"customer_name"`
	OpenedAt     string `json:"opened_at"`
	Total        string `json:"total"`
}

// =============================================================================
// PAYMENT CONDITIONS
// =============================================================================

// ConditionDTO represents a payment condition.
type ConditionDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Installments *int   `json:"installments,omitempty"`
	IntervalDays *int   `json:"interval_days,omitempty"`
}

// =============================================================================
// FINANCIAL GENERATION
// =============================================================================

// GenerateFinancialRequest drives both the preview and the confirm call
// for a work order. On confirm, Amounts optionally carries hand-edited
// installment values; they must still sum to the work order total.
type GenerateFinancialRequest struct {
	ConditionID string   `json:"condition_id,omitempty"`
	Competencia string   `json:"competencia,omitempty"`
	Description string   `json:"description,omitempty"`
	Actor       string   `json:"actor,omitempty"`
	Amounts     []string `json:"amounts,omitempty"`
}

// InstallmentDTO is one computed or persisted installment.
type InstallmentDTO struct {
	Sequence int    `json:"sequence"`
	DueDate  string `json:"due_date"`
	Amount   string `json:"amount"`
	Status   string `json:"status"`
}

// PlanDTO is a computed plan, returned by preview.
type PlanDTO struct {
	Total        string           `json:"total"`
	Anchor       string           `json:"anchor"`
	Installments []InstallmentDTO `json:"installments"`
}

// MovementDTO is a persisted parent movement with its children.
type MovementDTO struct {
	ID           string          `json:"id"`
	WorkOrderID  string          `json:"work_order_id"`
	Description  string          `json:"description,omitempty"`
	Total        string          `json:"total"`
	Competencia  string          `json:"competencia"`
	Installments int             `json:"installments"`
	ConditionID  string          `json:"condition_id,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
	Receivables  []ReceivableDTO `json:"receivables,omitempty"`
}

// ReceivableDTO is one persisted installment record.
type ReceivableDTO struct {
	ID         string  `json:"id"`
	MovementID string  `json:"movement_id"`
	Sequence   int     `json:"sequence"`
	DueDate    string  `json:"due_date"`
	Amount     string  `json:"amount"`
	Status     string  `json:"status"`
	PaidAt     *string `json:"paid_at,omitempty"`
}

// =============================================================================
// EMPLOYEES AND ADVANCES
// =============================================================================

// EmployeeDTO represents an employee.
type EmployeeDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Salary string `json:"salary"`
	Active bool   `json:"active"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	Name   string `json:"name"`
	Salary string `json:"salary"`
}

// AdvanceBatchRequest drives both preview and confirm of a payroll
// advance batch.
type AdvanceBatchRequest struct {
	Competencia string   `json:"competencia"`
	Anchor      string   `json:"anchor"`
	Percentage  string   `json:"percentage"`
	EmployeeIDs []string `json:"employee_ids"`
	Actor       string   `json:"actor,omitempty"`
}

// AllocationDTO is one computed allocation in a preview.
type AllocationDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	BaseValue    string `json:"base_value"`
	Amount       string `json:"amount"`
}

// AdvancePreviewResponse is the preview of an advance batch. Total is
// informational: the sum of independently rounded allocations.
type AdvancePreviewResponse struct {
	Allocations []AllocationDTO `json:"allocations"`
	Total       string          `json:"total"`
}

// AdvanceBatchDTO is a persisted batch with its children.
type AdvanceBatchDTO struct {
	ID          string       `json:"id"`
	Competencia string       `json:"competencia"`
	Percentage  string       `json:"percentage"`
	Anchor      string       `json:"anchor"`
	Total       string       `json:"total"`
	CreatedBy   string       `json:"created_by,omitempty"`
	Advances    []AdvanceDTO `json:"advances,omitempty"`
}

// AdvanceDTO is one persisted advance record.
type AdvanceDTO struct {
	ID           string `json:"id"`
	BatchID      string `json:"batch_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	BaseValue    string `json:"base_value"`
	Amount       string `json:"amount"`
	DueDate      string `json:"due_date"`
	Status       string `json:"status"`
}

// =============================================================================
// MISC
// =============================================================================

// SettleRequest carries the payment date for a settlement.
type SettleRequest struct {
	PaidAt string `json:"paid_at,omitempty"`
}

// ReportDTO is a stored aging report.
type ReportDTO struct {
	ID          string `json:"id"`
	GeneratedAt string `json:"generated_at"`
	Body        string `json:"body"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toWorkOrderDTO(wo ledger.WorkOrder) WorkOrderDTO {
	return WorkOrderDTO{
		ID:           wo.ID,
		Number:       wo.Number,
		CustomerName: wo.CustomerName,
		OpenedAt:     wo.OpenedAt.String(),
		Total:        wo.Total.String(),
		Processed:    wo.Processed,
		CreatedAt:    wo.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toConditionDTO(c schedule.Condition) ConditionDTO {
	return ConditionDTO{
		ID:           c.ID,
		Name:         c.Name,
		Kind:         string(c.Kind),
		Installments: c.Installments,
		IntervalDays: c.IntervalDays,
	}
}

func toPlanDTO(p *schedule.Plan) PlanDTO {
	dto := PlanDTO{Total: p.Total.String(), Anchor: p.Anchor.String()}
	for _, inst := range p.Installments {
		dto.Installments = append(dto.Installments, InstallmentDTO{
			Sequence: inst.Sequence,
			DueDate:  inst.DueDate.String(),
			Amount:   inst.Amount.String(),
			Status:   string(inst.Status),
		})
	}
	return dto
}

func toReceivableDTO(r ledger.Receivable) ReceivableDTO {
	dto := ReceivableDTO{
		ID:         r.ID,
		MovementID: r.MovementID,
		Sequence:   r.Sequence,
		DueDate:    r.DueDate.String(),
		Amount:     r.Amount.String(),
		Status:     string(r.Status),
	}
	if r.PaidAt != nil {
		s := r.PaidAt.String()
		dto.PaidAt = &s
	}
	return dto
}

func toMovementDTO(m ledger.FinancialMovement, receivables []ledger.Receivable) MovementDTO {
	dto := MovementDTO{
		ID:           m.ID,
		WorkOrderID:  m.WorkOrderID,
		Description:  m.Description,
		Total:        m.Total.String(),
		Competencia:  m.Competencia.String(),
		Installments: m.Installments,
		ConditionID:  m.ConditionID,
		CreatedBy:    m.CreatedBy,
	}
	for _, r := range receivables {
		dto.Receivables = append(dto.Receivables, toReceivableDTO(r))
	}
	return dto
}

func toEmployeeDTO(e ledger.Employee) EmployeeDTO {
	return EmployeeDTO{ID: e.ID, Name: e.Name, Salary: e.Salary.String(), Active: e.Active}
}

func toAdvanceDTO(a ledger.Advance) AdvanceDTO {
	return AdvanceDTO{
		ID:           a.ID,
		BatchID:      a.BatchID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		BaseValue:    a.BaseValue.String(),
		Amount:       a.Amount.String(),
		DueDate:      a.DueDate.String(),
		Status:       string(a.Status),
	}
}

func toBatchDTO(b ledger.AdvanceBatch, advances []ledger.Advance) AdvanceBatchDTO {
	dto := AdvanceBatchDTO{
		ID:          b.ID,
		Competencia: b.Competencia.String(),
		Percentage:  b.Percentage.String(),
		Anchor:      b.Anchor.String(),
		Total:       b.Total.String(),
		CreatedBy:   b.CreatedBy,
	}
	for _, a := range advances {
		dto.Advances = append(dto.Advances, toAdvanceDTO(a))
	}
	return dto
}
