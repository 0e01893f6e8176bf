/*
reporter.go - Background receivables-aging reporter

PURPOSE:
  Periodically aggregates open (pending) receivables into a plain-text
  aging report and stores it. Runs as a local background job; no external
  report service is involved.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Each run buckets pending receivables by days overdue relative to
    the current date and renders a text summary
  - Reports are append-only; the API serves the latest one

CONFIGURATION:
  - Interval: How often to run (default: 1 hour)
  - Enabled:  Whether the reporter is active (default: true)

USAGE:
  reporter := NewAgingReporter(store)
  reporter.Start()
  // ... later
  reporter.Stop()

SEE ALSO:
  - handlers.go: RunReport endpoint (manual trigger)
  - store/sqlite: ListOpenReceivablesDueBefore, SaveReport
*/
package api

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ordena/finance-engine/ledger"
	"github.com/ordena/finance-engine/money"
	"github.com/ordena/finance-engine/schedule"
	"github.com/ordena/finance-engine/store/sqlite"
)

// AgingReporter generates periodic receivables-aging reports.
type AgingReporter struct {
	Store    *sqlite.Store
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAgingReporter creates a reporter with default settings.
func NewAgingReporter(store *sqlite.Store) *AgingReporter {
	return &AgingReporter{
		Store:    store,
		Interval: 1 * time.Hour,
		Enabled:  true,
		stop:     make(chan struct{}),
	}
}

// Start begins the background loop.
func (ar *AgingReporter) Start() {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if !ar.Enabled {
		return
	}
	ar.ticker = time.NewTicker(ar.Interval)
	ar.wg.Add(1)
	go func() {
		defer ar.wg.Done()
		for {
			select {
			case <-ar.ticker.C:
				if _, err := ar.RunOnce(context.Background()); err != nil {
					log.Printf("aging report run failed: %v", err)
				}
			case <-ar.stop:
				return
			}
		}
	}()
	log.Printf("aging reporter started (interval %s)", ar.Interval)
}

// Stop halts the background loop and waits for an in-flight run.
func (ar *AgingReporter) Stop() {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	if ar.ticker == nil {
		return
	}
	ar.ticker.Stop()
	close(ar.stop)
	ar.wg.Wait()
	ar.ticker = nil
}

// RunOnce generates and stores one report.
func (ar *AgingReporter) RunOnce(ctx context.Context) (*sqlite.ReportRecord, error) {
	today := schedule.Today()

	// Every open receivable, including not-yet-due ones: the report
	// shows the whole pending book, bucketed by overdue age.
	open, err := ar.Store.ListReceivables(ctx, schedule.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("load open receivables: %w", err)
	}

	report := sqlite.ReportRecord{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Body:        BuildAgingReport(today, open),
	}
	if err := ar.Store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return &report, nil
}

// =============================================================================
// REPORT RENDERING
// =============================================================================

type agingBucket struct {
	label   string
	maxDays int // days overdue, exclusive upper bound; -1 = unbounded
}

var agingBuckets = []agingBucket{
	{label: "current (not due)", maxDays: 0},
	{label: "1-30 days overdue", maxDays: 30},
	{label: "31-60 days overdue", maxDays: 60},
	{label: "61-90 days overdue", maxDays: 90},
	{label: "over 90 days overdue", maxDays: -1},
}

// BuildAgingReport renders the aging summary for a set of pending
// receivables as of a given date. Pure; exported for tests.
func BuildAgingReport(asOf schedule.Date, receivables []ledger.Receivable) string {
	counts := make([]int, len(agingBuckets))
	totals := make([]money.Amount, len(agingBuckets))
	var grandTotal money.Amount

	for _, r := range receivables {
		overdue := daysBetween(r.DueDate, asOf)
		idx := bucketIndex(overdue)
		counts[idx]++
		totals[idx] = totals[idx].Add(r.Amount)
		grandTotal = grandTotal.Add(r.Amount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RECEIVABLES AGING REPORT - %s\n", asOf)
	fmt.Fprintf(&b, "open installments: %d, total: %s\n\n", len(receivables), grandTotal)
	for i, bucket := range agingBuckets {
		fmt.Fprintf(&b, "%-22s %4d  %12s\n", bucket.label, counts[i], totals[i])
	}
	return b.String()
}

func bucketIndex(daysOverdue int) int {
	if daysOverdue <= 0 {
		return 0
	}
	for i, bucket := range agingBuckets[1:] {
		if bucket.maxDays == -1 || daysOverdue <= bucket.maxDays {
			return i + 1
		}
	}
	return len(agingBuckets) - 1
}

func daysBetween(from, to schedule.Date) int {
	return int(to.Time().Sub(from.Time()).Hours() / 24)
}
