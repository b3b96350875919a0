/*
metrics.go - Metrics Collector

PURPOSE:
  Aggregates raw order, void, discount, and anomaly events into one
  PerformanceMetric per employee for an explicit window.

AGGREGATION RULES:
  - Cancelled orders are skipped entirely.
  - Voided orders are excluded from sales sums and order counts, but are
    still scanned for the no-drinks flag.
  - An employee with voids or discounts but zero orders still receives an
    entry; nobody is silently dropped.
  - Anomaly score weights severity: INFO=1, WARN=2, CRITICAL=3.
  - Derived fields (avg check, no-drinks rate) return 0 when their
    denominator is 0. NaN and Inf never appear.

WINDOW RESOLUTION:
  A window must come from a resolved period, a specific shift's day, or an
  explicit from/to range. An empty window is a validation error, never a
  silent "today" default.
*/
package perf

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WINDOW
// =============================================================================

// Window is an explicit, inclusive [From, To] aggregation range.
type Window struct {
	From time.Time
	To   time.Time
}

// Validate rejects unset or inverted windows.
func (w Window) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return ErrUnresolvedWindow
	}
	if w.To.Before(w.From) {
		return ErrInvalidWindow
	}
	return nil
}

// PeriodWindow converts a resolved period into an aggregation window.
func PeriodWindow(p Period) Window {
	return Window{From: p.Start, To: p.End}
}

// DayWindow is the full day containing t, used for shift-scoped collection.
func DayWindow(t time.Time) Window {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Window{From: start, To: endOfDay(start)}
}

// RangeWindow builds a window from two dates, inclusive of both full days.
func RangeWindow(from, to time.Time) Window {
	from = from.UTC()
	to = to.UTC()
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return Window{From: start, To: endOfDay(end)}
}

// =============================================================================
// COLLECTOR
// =============================================================================

// Collector aggregates raw events into per-employee performance metrics.
type Collector struct {
	Orders    OrderSource
	Voids     VoidAuditSource
	Discounts DiscountSource
	Anomalies AnomalySource
}

// Collect builds one PerformanceMetric per employee seen in the window.
// Results are sorted by employee id for deterministic output.
func (c *Collector) Collect(ctx context.Context, scope Scope, w Window) ([]PerformanceMetric, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	orders, err := c.Orders.OrdersInWindow(ctx, scope, w.From, w.To)
	if err != nil {
		return nil, &SourceError{Source: "orders", Err: err}
	}
	voids, err := c.Voids.VoidsInWindow(ctx, scope, w.From, w.To)
	if err != nil {
		return nil, &SourceError{Source: "voids", Err: err}
	}
	discounts, err := c.Discounts.DiscountsInWindow(ctx, scope, w.From, w.To)
	if err != nil {
		return nil, &SourceError{Source: "discounts", Err: err}
	}
	anomalies, err := c.Anomalies.AnomaliesInWindow(ctx, scope, w.From, w.To)
	if err != nil {
		return nil, &SourceError{Source: "anomalies", Err: err}
	}

	return c.build(orders, voids, discounts, anomalies), nil
}

// build joins the four event streams by employee id.
func (c *Collector) build(orders []Order, voids []VoidEvent, discounts []Discount, anomalies []AnomalyEvent) []PerformanceMetric {
	type acc struct {
		metric        PerformanceMetric
		scannedOrders int // denominator for the no-drinks rate
		noDrinks      int
	}

	byEmployee := make(map[EmployeeID]*acc)
	get := func(id EmployeeID) *acc {
		a, ok := byEmployee[id]
		if !ok {
			a = &acc{metric: PerformanceMetric{
				EmployeeID:    id,
				TotalSales:    decimal.Zero,
				AvgCheckSize:  decimal.Zero,
				VoidValue:     decimal.Zero,
				DiscountValue: decimal.Zero,
			}}
			byEmployee[id] = a
		}
		return a
	}

	for _, o := range orders {
		if o.Status == OrderCancelled {
			continue
		}
		a := get(o.EmployeeID)

		// Voided orders contribute no revenue but are still scanned for flags.
		a.scannedOrders++
		if o.NoDrinks {
			a.noDrinks++
		}
		if o.Status == OrderVoided {
			continue
		}

		a.metric.TotalSales = a.metric.TotalSales.Add(o.Total)
		a.metric.OrderCount++
	}

	for _, v := range voids {
		a := get(v.ActorID)
		a.metric.VoidCount++
		a.metric.VoidValue = a.metric.VoidValue.Add(v.Amount)
	}

	for _, d := range discounts {
		a := get(d.EmployeeID)
		a.metric.DiscountCount++
		a.metric.DiscountValue = a.metric.DiscountValue.Add(d.Value)
	}

	for _, ev := range anomalies {
		a := get(ev.SubjectID)
		a.metric.AnomalyCount++
		a.metric.AnomalyScore += ev.Severity.Weight()
	}

	metrics := make([]PerformanceMetric, 0, len(byEmployee))
	for _, a := range byEmployee {
		a.metric.AvgCheckSize = safeDiv(a.metric.TotalSales, a.metric.OrderCount)
		a.metric.NoDrinksRate = ratio(a.noDrinks, a.scannedOrders)
		metrics = append(metrics, a.metric)
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].EmployeeID < metrics[j].EmployeeID
	})
	return metrics
}
