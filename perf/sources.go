package perf

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// UPSTREAM EVENT SHAPES
// =============================================================================
// These are the read-side records the engine consumes. The storage engine
// behind them is a collaborator, not owned by this package.

// OrderStatus mirrors the order ledger's lifecycle states.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "OPEN"
	OrderClosed    OrderStatus = "CLOSED"
	OrderVoided    OrderStatus = "VOIDED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is one ticket from the order ledger.
type Order struct {
	ID         string
	EmployeeID EmployeeID
	Status     OrderStatus
	Total      decimal.Decimal
	NoDrinks   bool // flagged when the ticket contains no beverage items
	ClosedAt   time.Time
}

// VoidEvent is a VOID entry from the audit log. Amount comes from the event
// metadata, ActorID is the employee who performed the void.
type VoidEvent struct {
	ID      string
	ActorID EmployeeID
	Amount  decimal.Decimal
	At      time.Time
}

// Discount is one discount record with its creator and monetary value.
type Discount struct {
	ID         string
	EmployeeID EmployeeID
	Value      decimal.Decimal
	At         time.Time
}

// AnomalyEvent is one entry from the anomaly/risk event log.
type AnomalyEvent struct {
	ID        string
	SubjectID EmployeeID
	Severity  RiskSeverity
	At        time.Time
}

// AttendanceStatus is the per-day attendance outcome.
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "PRESENT"
	AttendanceAbsent    AttendanceStatus = "ABSENT"
	AttendanceLate      AttendanceStatus = "LATE"
	AttendanceLeftEarly AttendanceStatus = "LEFT_EARLY"
)

// AttendanceRecord is one employee-day from the attendance store.
type AttendanceRecord struct {
	EmployeeID EmployeeID
	Date       time.Time
	Status     AttendanceStatus
	CoverFor   EmployeeID // non-empty when this day covered someone else's shift
}

// DutyShift is one scheduled shift from the duty schedule store.
type DutyShift struct {
	ID         string
	EmployeeID EmployeeID
	Date       time.Time
}

// =============================================================================
// READ COLLABORATOR INTERFACES
// =============================================================================
// All reads are scoped and windowed; implementations decide how to index.
// The engine fetches these concurrently - none depends on another.

type OrderSource interface {
	OrdersInWindow(ctx context.Context, scope Scope, from, to time.Time) ([]Order, error)
}

type VoidAuditSource interface {
	VoidsInWindow(ctx context.Context, scope Scope, from, to time.Time) ([]VoidEvent, error)
}

type DiscountSource interface {
	DiscountsInWindow(ctx context.Context, scope Scope, from, to time.Time) ([]Discount, error)
}

type AnomalySource interface {
	AnomaliesInWindow(ctx context.Context, scope Scope, from, to time.Time) ([]AnomalyEvent, error)
}

type AttendanceSource interface {
	AttendanceInWindow(ctx context.Context, scope Scope, from, to time.Time) ([]AttendanceRecord, error)
}

type ShiftSource interface {
	ShiftsInWindow(ctx context.Context, scope Scope, from, to time.Time) ([]DutyShift, error)
}

// EmployeeDirectory exposes the staff roster for a scope. ActiveEmployees
// drives the reliability default records; Employees (active or not) backs
// lookups for historical listings.
type EmployeeDirectory interface {
	ActiveEmployees(ctx context.Context, scope Scope) ([]Employee, error)
	Employees(ctx context.Context, scope Scope) ([]Employee, error)
}

// RiskSource is the anti-theft summary collaborator. A failing RiskSource
// degrades the pipeline to "no flags attached"; it never aborts a run.
type RiskSource interface {
	RiskFlagsInWindow(ctx context.Context, scope Scope, from, to time.Time) (map[EmployeeID][]RiskFlag, error)
}

// Sources bundles every upstream read the engine needs.
type Sources struct {
	Orders     OrderSource
	Voids      VoidAuditSource
	Discounts  DiscountSource
	Anomalies  AnomalySource
	Attendance AttendanceSource
	Shifts     ShiftSource
	Directory  EmployeeDirectory
	Risk       RiskSource
}
