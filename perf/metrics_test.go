package perf_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/performance-engine/perf"
)

func collect(t *testing.T, data *fakeData) []perf.PerformanceMetric {
	t.Helper()
	c := &perf.Collector{Orders: data, Voids: data, Discounts: data, Anomalies: data}
	metrics, err := c.Collect(context.Background(), perf.Scope{OrgID: "org"}, marchWindow())
	require.NoError(t, err)
	return metrics
}

// =============================================================================
// AGGREGATION TESTS
// =============================================================================

func TestCollector_SalesAndAvgCheck(t *testing.T) {
	// GIVEN: Two closed orders for one employee
	// WHEN: Collecting the window
	// THEN: Sales sum and average check reflect both orders

	data := &fakeData{orders: []perf.Order{
		closedOrder("o-1", "emp-1", 100),
		closedOrder("o-2", "emp-1", 300),
	}}

	metrics := collect(t, data)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.True(t, m.TotalSales.Equal(decimal.NewFromInt(400)), "total sales %s", m.TotalSales)
	assert.Equal(t, 2, m.OrderCount)
	assert.True(t, m.AvgCheckSize.Equal(decimal.NewFromInt(200)), "avg check %s", m.AvgCheckSize)
}

func TestCollector_VoidedOrder_ExcludedFromSalesButScannedForFlags(t *testing.T) {
	// GIVEN: One closed order and one voided order flagged no-drinks
	// WHEN: Collecting the window
	// THEN: Sales count only the closed order; the no-drinks rate still
	//       counts the voided ticket in its denominator and numerator

	voided := closedOrder("o-2", "emp-1", 500)
	voided.Status = perf.OrderVoided
	voided.NoDrinks = true

	data := &fakeData{orders: []perf.Order{closedOrder("o-1", "emp-1", 100), voided}}

	metrics := collect(t, data)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.True(t, m.TotalSales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, m.OrderCount)
	assert.InDelta(t, 0.5, m.NoDrinksRate, 1e-9)
}

func TestCollector_CancelledOrder_SkippedEntirely(t *testing.T) {
	cancelled := closedOrder("o-1", "emp-1", 100)
	cancelled.Status = perf.OrderCancelled
	cancelled.NoDrinks = true

	data := &fakeData{orders: []perf.Order{cancelled}}

	metrics := collect(t, data)
	assert.Empty(t, metrics, "a cancelled order should not create an entry")
}

func TestCollector_VoidOnlyEmployee_StillGetsEntry(t *testing.T) {
	// GIVEN: An employee with a void event but no orders
	// WHEN: Collecting the window
	// THEN: The employee appears with zero sales and the void on record

	data := &fakeData{
		orders: []perf.Order{closedOrder("o-1", "emp-1", 100)},
		voids:  []perf.VoidEvent{{ID: "v-1", ActorID: "emp-2", Amount: decimal.NewFromInt(50), At: testDay}},
	}

	metrics := collect(t, data)
	require.Len(t, metrics, 2)

	// Sorted by employee id
	assert.Equal(t, perf.EmployeeID("emp-1"), metrics[0].EmployeeID)
	assert.Equal(t, perf.EmployeeID("emp-2"), metrics[1].EmployeeID)

	m := metrics[1]
	assert.True(t, m.TotalSales.IsZero())
	assert.True(t, m.AvgCheckSize.IsZero(), "no orders means zero avg check, not NaN")
	assert.Equal(t, 1, m.VoidCount)
	assert.True(t, m.VoidValue.Equal(decimal.NewFromInt(50)))
}

func TestCollector_AnomalyScore_WeightsBySeverity(t *testing.T) {
	// GIVEN: One INFO, one WARN, one CRITICAL anomaly for the same employee
	// WHEN: Collecting the window
	// THEN: anomalyScore = 1 + 2 + 3

	data := &fakeData{
		orders: []perf.Order{closedOrder("o-1", "emp-1", 100)},
		anomalies: []perf.AnomalyEvent{
			{ID: "a-1", SubjectID: "emp-1", Severity: perf.SeverityInfo, At: testDay},
			{ID: "a-2", SubjectID: "emp-1", Severity: perf.SeverityWarn, At: testDay},
			{ID: "a-3", SubjectID: "emp-1", Severity: perf.SeverityCritical, At: testDay},
		},
	}

	metrics := collect(t, data)
	require.Len(t, metrics, 1)
	assert.Equal(t, 3, metrics[0].AnomalyCount)
	assert.InDelta(t, 6.0, metrics[0].AnomalyScore, 1e-9)
}

func TestCollector_Discounts(t *testing.T) {
	data := &fakeData{
		discounts: []perf.Discount{
			{ID: "d-1", EmployeeID: "emp-1", Value: decimal.NewFromInt(20), At: testDay},
			{ID: "d-2", EmployeeID: "emp-1", Value: decimal.NewFromInt(30), At: testDay},
		},
	}

	metrics := collect(t, data)
	require.Len(t, metrics, 1)
	assert.Equal(t, 2, metrics[0].DiscountCount)
	assert.True(t, metrics[0].DiscountValue.Equal(decimal.NewFromInt(50)))
}

func TestCollector_UnresolvedWindow_Rejected(t *testing.T) {
	data := &fakeData{}
	c := &perf.Collector{Orders: data, Voids: data, Discounts: data, Anomalies: data}

	_, err := c.Collect(context.Background(), perf.Scope{OrgID: "org"}, perf.Window{})
	assert.ErrorIs(t, err, perf.ErrUnresolvedWindow)
}

func TestCollector_SourceFailure_WrappedWithSourceName(t *testing.T) {
	// GIVEN: The order source fails
	// WHEN: Collecting the window
	// THEN: The error names the failing source and unwraps to the cause

	cause := errors.New("connection refused")
	data := &fakeData{ordersErr: cause}
	c := &perf.Collector{Orders: data, Voids: data, Discounts: data, Anomalies: data}

	_, err := c.Collect(context.Background(), perf.Scope{OrgID: "org"}, marchWindow())
	require.Error(t, err)

	var srcErr *perf.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "orders", srcErr.Source)
	assert.ErrorIs(t, err, cause)
}
