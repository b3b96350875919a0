/*
Package review turns rankings into decisions.

PURPOSE:
  This package owns everything downstream of the perf pipeline: selecting a
  period award winner per category, generating promotion/training/review
  suggestions, and the persisted decision workflow that governs how a
  suggestion moves from PENDING to a human decision.

KEY CONCEPTS IN THIS FILE (types.go):
  - AwardCategory / AwardRecommendation / StaffAward
  - SuggestionCategory / PromotionSuggestion / SuggestionStatus
  - InsightsSnapshot: the metrics frozen alongside a suggestion so the
    decision can be audited later against the numbers that produced it

DESIGN PRINCIPLES:
  1. Awards and suggestions are ephemeral until explicitly persisted.
  2. Persisted rows are never deleted - they are the audit history.
  3. A human decision (ACCEPTED/REJECTED) is immutable; regeneration only
     refreshes rows still awaiting one.

SEE ALSO:
  - awards.go: Category-specific winner selection
  - suggestions.go: Threshold rule evaluation
  - workflow.go: Persistence and the status state machine
*/
package review

import (
	"time"

	"github.com/warp/performance-engine/perf"
)

// =============================================================================
// AWARDS
// =============================================================================

// AwardCategory selects the metric an award is judged on.
type AwardCategory string

const (
	AwardTopPerformer AwardCategory = "TOP_PERFORMER"
	AwardHighestSales AwardCategory = "HIGHEST_SALES"
	AwardBestService  AwardCategory = "BEST_SERVICE"
	AwardMostReliable AwardCategory = "MOST_RELIABLE"
	AwardMostImproved AwardCategory = "MOST_IMPROVED"
)

// ParseAwardCategory converts a string to an AwardCategory.
func ParseAwardCategory(s string) (AwardCategory, bool) {
	switch AwardCategory(s) {
	case AwardTopPerformer, AwardHighestSales, AwardBestService, AwardMostReliable, AwardMostImproved:
		return AwardCategory(s), true
	}
	return "", false
}

// AwardRecommendation is an ephemeral winner pick with its justification.
// A nil recommendation means "no recommendation", which is not an error.
type AwardRecommendation struct {
	EmployeeID   perf.EmployeeID `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Category     AwardCategory   `json:"category"`
	Score        float64         `json:"score"`
	Rank         int             `json:"rank"`
	Reason       string          `json:"reason"`
	PeriodLabel  string          `json:"period_label"`
}

// StaffAward is the persisted form of a granted award. Keyed by
// (org, employee, periodType, periodStart, rank); never deleted.
type StaffAward struct {
	ID          string
	OrgID       string
	BranchID    string
	EmployeeID  perf.EmployeeID
	Category    AwardCategory
	Score       float64
	Rank        int
	Reason      string
	PeriodType  perf.PeriodType
	PeriodStart time.Time
	PeriodLabel string
	CreatedBy   string
	CreatedAt   time.Time
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

// SuggestionCategory is one of the independently evaluated recommendation
// types.
type SuggestionCategory string

const (
	SuggestPromotion         SuggestionCategory = "PROMOTION"
	SuggestTraining          SuggestionCategory = "TRAINING"
	SuggestPerformanceReview SuggestionCategory = "PERFORMANCE_REVIEW"
)

// SuggestionStatus is the decision state of a persisted suggestion.
type SuggestionStatus string

const (
	StatusPending  SuggestionStatus = "PENDING"
	StatusAccepted SuggestionStatus = "ACCEPTED"
	StatusRejected SuggestionStatus = "REJECTED"
	StatusIgnored  SuggestionStatus = "IGNORED"
)

// ParseSuggestionStatus converts a string to a SuggestionStatus.
func ParseSuggestionStatus(s string) (SuggestionStatus, bool) {
	switch SuggestionStatus(s) {
	case StatusPending, StatusAccepted, StatusRejected, StatusIgnored:
		return SuggestionStatus(s), true
	}
	return "", false
}

// Decided reports whether the status is one a human has committed to.
// ACCEPTED and REJECTED cannot be moved to a different status afterwards;
// IGNORED can be reopened.
func (s SuggestionStatus) Decided() bool {
	return s == StatusAccepted || s == StatusRejected
}

// InsightsSnapshot freezes the numbers that produced a suggestion.
type InsightsSnapshot struct {
	CompositeScore   float64 `json:"composite_score"`
	PerformanceScore float64 `json:"performance_score"`
	ReliabilityScore float64 `json:"reliability_score"`
	AttendanceRate   float64 `json:"attendance_rate"`
	TotalSales       string  `json:"total_sales"`
	OrderCount       int     `json:"order_count"`
	AvgCheckSize     string  `json:"avg_check_size"`
	VoidCount        int     `json:"void_count"`
	NoDrinksRate     float64 `json:"no_drinks_rate"`
	TenureMonths     int     `json:"tenure_months"`
	Rank             int     `json:"rank"`
}

// Suggestion is the ephemeral output of the generator, before persistence.
type Suggestion struct {
	EmployeeID perf.EmployeeID
	Category   SuggestionCategory
	Score      float64
	Reason     string
	Snapshot   InsightsSnapshot
}

// PromotionSuggestion is the persisted decision record. Keyed by
// (org, employee, periodType, periodStart, category); never deleted.
type PromotionSuggestion struct {
	ID                string
	OrgID             string
	BranchID          string
	EmployeeID        perf.EmployeeID
	Category          SuggestionCategory
	ScoreAtSuggestion float64
	Snapshot          InsightsSnapshot
	Reason            string
	Status            SuggestionStatus
	StatusUpdatedAt   *time.Time
	StatusUpdatedBy   string
	DecisionNotes     string
	PeriodType        perf.PeriodType
	PeriodStart       time.Time
	PeriodLabel       string
	CreatedBy         string
	CreatedAt         time.Time
}
