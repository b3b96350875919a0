/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - perf/types.go: Domain types the DTOs project
*/
package api

import (
	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	HireDate string `json:"hire_date"`
}

// UpsertEmployeeRequest is the request to create or update an employee.
type UpsertEmployeeRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Active   *bool  `json:"active,omitempty"` // omitted = true
	HireDate string `json:"hire_date"`        // YYYY-MM-DD
}

// =============================================================================
// EVENT INGESTION
// =============================================================================

// OrderRequest ingests one closed/voided/cancelled order.
type OrderRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"` // OPEN, CLOSED, VOIDED, CANCELLED
	Total      string `json:"total"`  // decimal string
	NoDrinks   bool   `json:"no_drinks,omitempty"`
	ClosedAt   string `json:"closed_at"` // RFC3339
}

// VoidEventRequest ingests one void audit entry.
type VoidEventRequest struct {
	ID      string `json:"id"`
	ActorID string `json:"actor_id"`
	Amount  string `json:"amount"`
	At      string `json:"at"`
}

// DiscountRequest ingests one discount record.
type DiscountRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Value      string `json:"value"`
	At         string `json:"at"`
}

// AnomalyRequest ingests one anomaly event.
type AnomalyRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Severity   string `json:"severity"` // INFO, WARN, CRITICAL
	At         string `json:"at"`
}

// AttendanceRequest ingests one per-day attendance record.
type AttendanceRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`   // YYYY-MM-DD
	Status     string `json:"status"` // PRESENT, ABSENT, LATE, LEFT_EARLY
	CoverFor   string `json:"cover_for,omitempty"`
}

// ShiftRequest ingests one scheduled duty shift.
type ShiftRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
}

// RiskFlagRequest ingests one external risk flag.
type RiskFlagRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Code       string `json:"code"`
	Severity   string `json:"severity"`
	Detail     string `json:"detail,omitempty"`
	At         string `json:"at"`
}

// =============================================================================
// RANKING
// =============================================================================

// RankedStaffDTO is one scored employee in a ranking response.
type RankedStaffDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`

	Rank             int     `json:"rank"`
	CompositeScore   float64 `json:"composite_score"`
	PerformanceScore float64 `json:"performance_score"`
	ReliabilityScore float64 `json:"reliability_score"`

	TotalSales   string  `json:"total_sales"`
	OrderCount   int     `json:"order_count"`
	AvgCheckSize string  `json:"avg_check_size"`
	VoidCount    int     `json:"void_count"`
	VoidValue    string  `json:"void_value"`
	NoDrinksRate float64 `json:"no_drinks_rate"`
	AnomalyCount int     `json:"anomaly_count"`

	ShiftsScheduled int     `json:"shifts_scheduled"`
	ShiftsWorked    int     `json:"shifts_worked"`
	AttendanceRate  float64 `json:"attendance_rate"`

	TenureMonths int  `json:"tenure_months"`
	Active       bool `json:"active"`

	Breakdown perf.ScoreBreakdown `json:"breakdown"`

	RiskFlags      []RiskFlagDTO `json:"risk_flags,omitempty"`
	IsCriticalRisk bool          `json:"is_critical_risk"`

	IsEligible        bool   `json:"is_eligible"`
	EligibilityReason string `json:"eligibility_reason,omitempty"`
}

// RiskFlagDTO is one risk flag on a ranked employee.
type RiskFlagDTO struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Detail   string `json:"detail,omitempty"`
}

// RankingResponse is the full ranking for one period.
type RankingResponse struct {
	OrgID       string           `json:"org_id"`
	BranchID    string           `json:"branch_id,omitempty"`
	PeriodType  string           `json:"period_type"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	PeriodLabel string           `json:"period_label"`
	Staff       []RankedStaffDTO `json:"staff"`
}

// =============================================================================
// AWARDS AND SUGGESTIONS
// =============================================================================

// GrantAwardRequest asks for an award to be selected and persisted.
type GrantAwardRequest struct {
	BranchID string `json:"branch_id,omitempty"`
	Period   string `json:"period"`             // WEEK, MONTH, QUARTER, YEAR
	Ref      string `json:"ref,omitempty"`      // YYYY-MM-DD inside the period, default today
	Category string `json:"category"`           // award category
	Actor    string `json:"actor,omitempty"`
}

// StaffAwardDTO is a persisted award in API responses.
type StaffAwardDTO struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	Reason      string  `json:"reason"`
	PeriodType  string  `json:"period_type"`
	PeriodStart string  `json:"period_start"`
	PeriodLabel string  `json:"period_label"`
	CreatedBy   string  `json:"created_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// GenerateSuggestionsRequest asks for a persisted suggestion generation run.
type GenerateSuggestionsRequest struct {
	BranchID string `json:"branch_id,omitempty"`
	Period   string `json:"period"`
	Ref      string `json:"ref,omitempty"`
	Actor    string `json:"actor,omitempty"`
}

// SuggestionDTO is a persisted suggestion in API responses.
type SuggestionDTO struct {
	ID              string                  `json:"id"`
	EmployeeID      string                  `json:"employee_id"`
	Category        string                  `json:"category"`
	Score           float64                 `json:"score"`
	Snapshot        review.InsightsSnapshot `json:"snapshot"`
	Reason          string                  `json:"reason"`
	Status          string                  `json:"status"`
	StatusUpdatedAt string                  `json:"status_updated_at,omitempty"`
	StatusUpdatedBy string                  `json:"status_updated_by,omitempty"`
	DecisionNotes   string                  `json:"decision_notes,omitempty"`
	PeriodType      string                  `json:"period_type"`
	PeriodStart     string                  `json:"period_start"`
	PeriodLabel     string                  `json:"period_label"`
	CreatedAt       string                  `json:"created_at"`
}

// UpdateStatusRequest moves a suggestion to a new decision status.
type UpdateStatusRequest struct {
	Status string `json:"status"` // ACCEPTED, REJECTED, IGNORED, PENDING
	Actor  string `json:"actor,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
