package review

import (
	"context"
	"time"

	"github.com/warp/performance-engine/perf"
)

// =============================================================================
// DECISION STORE - Persistence contract for awards and suggestions
// =============================================================================

// UpsertOutcome distinguishes what the idempotent write actually did.
type UpsertOutcome string

const (
	OutcomeCreated   UpsertOutcome = "created"   // new row
	OutcomeUpdated   UpsertOutcome = "updated"   // PENDING row refreshed
	OutcomeUntouched UpsertOutcome = "untouched" // decided row left alone
)

// GenerationResult is the caller-visible accounting of one persist run.
type GenerationResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Untouched int `json:"untouched"`
}

// AwardFilter narrows historical award listings. Zero values mean "any".
type AwardFilter struct {
	OrgID      string
	BranchID   string
	EmployeeID perf.EmployeeID
	PeriodType perf.PeriodType
	Category   AwardCategory
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// SuggestionFilter narrows historical suggestion listings.
type SuggestionFilter struct {
	OrgID      string
	BranchID   string
	EmployeeID perf.EmployeeID
	PeriodType perf.PeriodType
	Category   SuggestionCategory
	Status     SuggestionStatus
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// DecisionStore persists awards and suggestions. There is deliberately no
// delete operation on either record type: rows are the audit history.
//
// UpsertSuggestion must be idempotent on the (org, employee, periodType,
// periodStart, category) key: create when absent, refresh score/snapshot/
// reason when the existing row is still PENDING, and leave decided rows
// untouched.
type DecisionStore interface {
	SaveAward(ctx context.Context, a StaffAward) (UpsertOutcome, error)
	ListAwards(ctx context.Context, f AwardFilter) ([]StaffAward, error)

	UpsertSuggestion(ctx context.Context, s PromotionSuggestion) (UpsertOutcome, error)
	GetSuggestion(ctx context.Context, id string) (*PromotionSuggestion, error)
	ListSuggestions(ctx context.Context, f SuggestionFilter) ([]PromotionSuggestion, error)

	// UpdateSuggestionStatus applies the status change atomically and
	// returns the stored row after the update.
	UpdateSuggestionStatus(ctx context.Context, id string, status SuggestionStatus, actor, notes string, at time.Time) (*PromotionSuggestion, error)
}
