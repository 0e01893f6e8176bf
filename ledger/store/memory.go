// Package store provides ledger.Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	workOrders  map[string]ledger.WorkOrder
	movements   map[string]ledger.FinancialMovement
	receivables map[string][]ledger.Receivable // keyed by movement ID
	batches     map[string]ledger.AdvanceBatch
	advances    map[string][]ledger.Advance // keyed by batch ID
}

func NewMemory() *Memory {
	return &Memory{
		workOrders:  make(map[string]ledger.WorkOrder),
		movements:   make(map[string]ledger.FinancialMovement),
		receivables: make(map[string][]ledger.Receivable),
		batches:     make(map[string]ledger.AdvanceBatch),
		advances:    make(map[string][]ledger.Advance),
	}
}

// PutWorkOrder seeds a work order. Test setup helper.
func (m *Memory) PutWorkOrder(wo ledger.WorkOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workOrders[wo.ID] = wo
}

func (m *Memory) GetWorkOrder(_ context.Context, id string) (*ledger.WorkOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wo, ok := m.workOrders[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ledger.ErrWorkOrderNotFound)
	}
	return &wo, nil
}

func (m *Memory) MarkWorkOrderProcessed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	wo, ok := m.workOrders[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ledger.ErrWorkOrderNotFound)
	}
	wo.Processed = true
	m.workOrders[id] = wo
	return nil
}

func (m *Memory) CreateMovement(_ context.Context, mv ledger.FinancialMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[mv.ID] = mv
	return nil
}

func (m *Memory) CreateReceivable(_ context.Context, r ledger.Receivable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivables[r.MovementID] = append(m.receivables[r.MovementID], r)
	return nil
}

func (m *Memory) ReceivablesByMovement(_ context.Context, movementID string) ([]ledger.Receivable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Receivable, len(m.receivables[movementID]))
	copy(result, m.receivables[movementID])
	sort.Slice(result, func(i, j int) bool { return result[i].Sequence < result[j].Sequence })
	return result, nil
}

func (m *Memory) CreateAdvanceBatch(_ context.Context, b ledger.AdvanceBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[b.ID] = b
	return nil
}

func (m *Memory) CreateAdvance(_ context.Context, a ledger.Advance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advances[a.BatchID] = append(m.advances[a.BatchID], a)
	return nil
}

func (m *Memory) AdvancesByBatch(_ context.Context, batchID string) ([]ledger.Advance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ledger.Advance, len(m.advances[batchID]))
	copy(result, m.advances[batchID])
	return result, nil
}

// SetReceivableStatus implements ledger.SettlementStore.
func (m *Memory) SetReceivableStatus(_ context.Context, id string, status schedule.Status, paidAt *schedule.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for movementID, rs := range m.receivables {
		for i, r := range rs {
			if r.ID == id {
				r.Status = status
				r.PaidAt = paidAt
				m.receivables[movementID][i] = r
				return nil
			}
		}
	}
	return fmt.Errorf("%s: %w", id, ledger.ErrReceivableNotFound)
}

// GetMovement loads a movement by ID. Test inspection helper.
func (m *Memory) GetMovement(_ context.Context, id string) (*ledger.FinancialMovement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mv, ok := m.movements[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ledger.ErrMovementNotFound)
	}
	return &mv, nil
}
