/*
Package perf computes staff performance rankings for a period.

PURPOSE:
  This package contains the computation engine: it aggregates raw sales,
  void, discount, anomaly, attendance, and shift data into per-employee
  metrics, normalizes them across the cohort, blends performance with
  attendance reliability into a composite score, and filters the ranking
  through period-dependent award eligibility rules.

KEY CONCEPTS IN THIS FILE (types.go):
  - Scope: An already-authorized organization/branch identifier
  - PerformanceMetric: Per-employee sales/service behavior for a period
  - ReliabilityMetric: Per-employee attendance consistency for a period
  - RankedStaff: The merged, scored, ranked view of one employee
  - RiskFlag: Read-only risk annotations from the anti-theft collaborator

DESIGN PRINCIPLES:
  1. Ephemerality: Everything here is recomputed per call; only the review
     package persists anything.
  2. Precision: Monetary amounts use decimal.Decimal; scores and rates are
     float64 in [0,1].
  3. Guarded math: Every ratio returns 0 when its denominator is 0. NaN and
     Inf never enter a score.

SEE ALSO:
  - period.go: Period resolution
  - scoring.go: Cohort normalization and weights
  - ranking.go: Composite score and dense ranks
  - eligibility.go: Award eligibility rules
*/
package perf

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS & SCOPE
// =============================================================================

type EmployeeID string

// Scope identifies the organization (and optionally a single branch) a
// computation runs over. Multi-tenant isolation happens upstream; callers
// hand this package an already-scoped identifier.
type Scope struct {
	OrgID    string
	BranchID string // empty = all branches of the org
}

// =============================================================================
// EMPLOYEE DIRECTORY RECORD
// =============================================================================

// Employee is the directory view this engine needs: identity, active status,
// and hire date (for tenure rules).
type Employee struct {
	ID       EmployeeID
	Name     string
	Active   bool
	HireDate time.Time
}

// TenureMonths returns full months of employment as of the given date.
func (e Employee) TenureMonths(asOf time.Time) int {
	if e.HireDate.IsZero() || asOf.Before(e.HireDate) {
		return 0
	}
	months := (asOf.Year()-e.HireDate.Year())*12 + int(asOf.Month()) - int(e.HireDate.Month())
	if asOf.Day() < e.HireDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// =============================================================================
// PERFORMANCE METRIC - Sales/service behavior for one employee, one period
// =============================================================================

type PerformanceMetric struct {
	EmployeeID   EmployeeID
	EmployeeName string

	TotalSales   decimal.Decimal
	OrderCount   int
	AvgCheckSize decimal.Decimal // TotalSales / OrderCount, zero when no orders

	VoidCount int
	VoidValue decimal.Decimal

	DiscountCount int
	DiscountValue decimal.Decimal

	NoDrinksRate float64 // share of orders flagged without beverages, [0,1]

	AnomalyCount int
	AnomalyScore float64 // severity-weighted: INFO=1, WARN=2, CRITICAL=3
}

// =============================================================================
// RELIABILITY METRIC - Attendance consistency for one employee, one period
// =============================================================================

type ReliabilityMetric struct {
	EmployeeID EmployeeID

	ShiftsScheduled int
	ShiftsWorked    int
	ShiftsAbsent    int
	LateCount       int
	LeftEarlyCount  int
	CoverShifts     int

	AttendanceRate   float64 // ShiftsWorked / ShiftsScheduled, 0 when none scheduled
	ReliabilityScore float64 // [0,1]
}

// AbsenceRate returns ShiftsAbsent / ShiftsScheduled, 0 when none scheduled.
func (r ReliabilityMetric) AbsenceRate() float64 {
	if r.ShiftsScheduled == 0 {
		return 0
	}
	return float64(r.ShiftsAbsent) / float64(r.ShiftsScheduled)
}

// =============================================================================
// RISK FLAGS - Read-only annotations from the risk/anti-theft collaborator
// =============================================================================

type RiskSeverity string

const (
	SeverityInfo     RiskSeverity = "INFO"
	SeverityWarn     RiskSeverity = "WARN"
	SeverityCritical RiskSeverity = "CRITICAL"
)

// ParseRiskSeverity converts a string to a RiskSeverity.
func ParseRiskSeverity(s string) (RiskSeverity, bool) {
	switch RiskSeverity(s) {
	case SeverityInfo, SeverityWarn, SeverityCritical:
		return RiskSeverity(s), true
	}
	return "", false
}

// Weight returns the multiplier used for severity-weighted anomaly scoring.
func (s RiskSeverity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarn:
		return 2
	default:
		return 1
	}
}

type RiskFlag struct {
	Code     string
	Severity RiskSeverity
	Detail   string
}

// =============================================================================
// RANKED STAFF - The combined, scored view of one employee
// =============================================================================

type RankedStaff struct {
	EmployeeID   EmployeeID
	EmployeeName string

	Performance PerformanceMetric
	Reliability ReliabilityMetric
	Breakdown   ScoreBreakdown

	PerformanceScore float64
	ReliabilityScore float64
	CompositeScore   float64 // [0,1]
	Rank             int     // dense, 1..N, descending by CompositeScore

	TenureMonths int
	Active       bool

	RiskFlags      []RiskFlag
	IsCriticalRisk bool

	IsEligible        bool
	EligibilityReason string // non-empty iff !IsEligible
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// safeDiv returns a/b, or zero when b is zero.
func safeDiv(a decimal.Decimal, b int) decimal.Decimal {
	if b == 0 {
		return decimal.Zero
	}
	return a.Div(decimal.NewFromInt(int64(b)))
}

// ratio returns a/b as float64, or 0 when b is zero.
func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
