/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for demos. Each scenario creates payment conditions, work orders,
  and employees that exercise specific flows.

AVAILABLE SCENARIOS:
  service-shop:  Work orders with the common condition catalog
  payroll:       Employees with salaries, ready for an advance batch

NOTE:
  Scenarios reset the database. Only use in development/demo
  environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - server.go: Route wiring
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
)

// ScenarioDTO describes one loadable scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "service-shop",
		Name:        "Service shop",
		Description: "Payment condition catalog plus open work orders ready for financial generation",
	},
	{
		ID:          "payroll",
		Name:        "Payroll advances",
		Description: "Employees with salaries, ready for a percentage advance batch",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads the selected scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "service-shop":
		err = h.loadServiceShopScenario(ctx)
	case "payroll":
		err = h.loadPayrollScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "unknown scenario", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scenario load failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

func (h *Handler) loadServiceShopScenario(ctx context.Context) error {
	conditions := []schedule.Condition{
		{ID: "cond-avista", Name: "À vista", Kind: schedule.KindImmediate},
		{ID: "cond-30", Name: "30 dias", Kind: schedule.KindDeferred, IntervalDays: schedule.IntPtr(30)},
		{ID: "cond-3x", Name: "3x mensal", Kind: schedule.KindInstallment, Installments: schedule.IntPtr(3), IntervalDays: schedule.IntPtr(30)},
		{ID: "cond-6x", Name: "6x mensal", Kind: schedule.KindInstallment, Installments: schedule.IntPtr(6), IntervalDays: schedule.IntPtr(30)},
	}
	for _, c := range conditions {
		if err := h.Store.SaveCondition(ctx, c); err != nil {
			return err
		}
	}

	orders := []ledger.WorkOrder{
		{
			ID:           uuid.NewString(),
			Number:       "OS-1001",
			CustomerName: "Oficina Central",
			OpenedAt:     schedule.Today().AddDays(-7),
			Total:        money.MustParse("1000.00"),
			CreatedAt:    nowUTC(),
		},
		{
			ID:           uuid.NewString(),
			Number:       "OS-1002",
			CustomerName: "Transportes Silva",
			OpenedAt:     schedule.Today().AddDays(-2),
			Total:        money.MustParse("2457.90"),
			CreatedAt:    nowUTC(),
		},
	}
	for _, wo := range orders {
		if err := h.Store.CreateWorkOrder(ctx, wo); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadPayrollScenario(ctx context.Context) error {
	employees := []ledger.Employee{
		{ID: uuid.NewString(), Name: "Ana Souza", Salary: money.MustParse("3200.00"), Active: true, CreatedAt: nowUTC()},
		{ID: uuid.NewString(), Name: "Bruno Lima", Salary: money.MustParse("2200.00"), Active: true, CreatedAt: nowUTC()},
		{ID: uuid.NewString(), Name: "Carla Mendes", Salary: money.MustParse("1500.00"), Active: true, CreatedAt: nowUTC()},
		{ID: uuid.NewString(), Name: "Diego Alves", Salary: money.MustParse("4100.00"), Active: false, CreatedAt: nowUTC()},
	}
	for _, e := range employees {
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
