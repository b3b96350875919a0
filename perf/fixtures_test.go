package perf_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/performance-engine/perf"
)

// =============================================================================
// SHARED TEST FIXTURES - In-memory sources backed by plain slices
// =============================================================================

type fakeData struct {
	orders     []perf.Order
	voids      []perf.VoidEvent
	discounts  []perf.Discount
	anomalies  []perf.AnomalyEvent
	attendance []perf.AttendanceRecord
	shifts     []perf.DutyShift
	employees  []perf.Employee
	risk       map[perf.EmployeeID][]perf.RiskFlag

	ordersErr error
	riskErr   error
}

func (f *fakeData) OrdersInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakeData) VoidsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.VoidEvent, error) {
	return f.voids, nil
}

func (f *fakeData) DiscountsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.Discount, error) {
	return f.discounts, nil
}

func (f *fakeData) AnomaliesInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.AnomalyEvent, error) {
	return f.anomalies, nil
}

func (f *fakeData) AttendanceInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.AttendanceRecord, error) {
	return f.attendance, nil
}

func (f *fakeData) ShiftsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) ([]perf.DutyShift, error) {
	return f.shifts, nil
}

func (f *fakeData) ActiveEmployees(ctx context.Context, scope perf.Scope) ([]perf.Employee, error) {
	var out []perf.Employee
	for _, e := range f.employees {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeData) Employees(ctx context.Context, scope perf.Scope) ([]perf.Employee, error) {
	return f.employees, nil
}

func (f *fakeData) RiskFlagsInWindow(ctx context.Context, scope perf.Scope, from, to time.Time) (map[perf.EmployeeID][]perf.RiskFlag, error) {
	return f.risk, f.riskErr
}

func (f *fakeData) sources() perf.Sources {
	return perf.Sources{
		Orders:     f,
		Voids:      f,
		Discounts:  f,
		Anomalies:  f,
		Attendance: f,
		Shifts:     f,
		Directory:  f,
		Risk:       f,
	}
}

// =============================================================================
// EVENT BUILDERS
// =============================================================================

var testDay = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func closedOrder(id, employee string, total float64) perf.Order {
	return perf.Order{
		ID:         id,
		EmployeeID: perf.EmployeeID(employee),
		Status:     perf.OrderClosed,
		Total:      decimal.NewFromFloat(total),
		ClosedAt:   testDay,
	}
}

func marchWindow() perf.Window {
	return perf.PeriodWindow(perf.ResolvePeriod(perf.PeriodMonth, testDay))
}
