/*
workflow.go - Decision workflow over the ranking pipeline

PURPOSE:
  The service layer tying everything together: run the perf pipeline for a
  period, preview or persist award winners, generate-and-persist
  suggestions, and govern suggestion status transitions.

STATE MACHINE:
  PENDING -> ACCEPTED | REJECTED | IGNORED

  ACCEPTED and REJECTED are terminal against *different* targets: moving a
  decided row elsewhere is a validation error and the stored decision stays
  intact. Re-confirming the same status succeeds (refreshing actor/time/
  notes), and IGNORED can be reopened to any status. Every change records
  the actor, a timestamp, and optional decision notes.

IDEMPOTENCE:
  Re-running generation for an unchanged window creates nothing new: rows
  still PENDING are refreshed in place, decided rows are left untouched,
  and the result reports created vs updated counts. Concurrent runs for the
  same (org, period, category) are safe because the write is an upsert on
  the row's composite identity.
*/
package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warp/performance-engine/perf"
)

// Workflow runs the pipeline and persists its decisions.
type Workflow struct {
	Engine *perf.Engine
	Store  DecisionStore

	Scoring    perf.ScoringConfig
	Thresholds SuggestionThresholds
	Rules      map[perf.PeriodType]perf.EligibilityRules // nil entry = defaults

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewWorkflow builds a workflow with default scoring and thresholds.
func NewWorkflow(engine *perf.Engine, store DecisionStore) *Workflow {
	return &Workflow{
		Engine:     engine,
		Store:      store,
		Scoring:    perf.DefaultScoringConfig(),
		Thresholds: DefaultSuggestionThresholds(),
		Now:        time.Now,
	}
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now().UTC()
	}
	return time.Now().UTC()
}

func (w *Workflow) rulesFor(pt perf.PeriodType) *perf.EligibilityRules {
	if r, ok := w.Rules[pt]; ok {
		return &r
	}
	return nil
}

// Rank runs the pipeline for the period containing ref.
func (w *Workflow) Rank(ctx context.Context, scope perf.Scope, pt perf.PeriodType, ref time.Time) (*perf.Ranking, error) {
	return w.Engine.RankAt(ctx, scope, pt, ref, w.Scoring, w.rulesFor(pt))
}

// =============================================================================
// AWARDS
// =============================================================================

// PreviewAward computes the recommendation without persisting anything.
// A nil recommendation with a nil error means no eligible staff.
func (w *Workflow) PreviewAward(ctx context.Context, scope perf.Scope, pt perf.PeriodType, ref time.Time, category AwardCategory) (*AwardRecommendation, error) {
	ranking, err := w.Rank(ctx, scope, pt, ref)
	if err != nil {
		return nil, err
	}
	return SelectAward(ranking.Eligible, category, ranking.Period.Label), nil
}

// GrantAward computes and persists the winner for a period+category.
// Returns (nil, nil) when there is no recommendation to persist.
func (w *Workflow) GrantAward(ctx context.Context, scope perf.Scope, pt perf.PeriodType, ref time.Time, category AwardCategory, actor string) (*StaffAward, error) {
	ranking, err := w.Rank(ctx, scope, pt, ref)
	if err != nil {
		return nil, err
	}
	rec := SelectAward(ranking.Eligible, category, ranking.Period.Label)
	if rec == nil {
		return nil, nil
	}

	award := StaffAward{
		ID:          uuid.NewString(),
		OrgID:       scope.OrgID,
		BranchID:    scope.BranchID,
		EmployeeID:  rec.EmployeeID,
		Category:    category,
		Score:       rec.Score,
		Rank:        rec.Rank,
		Reason:      rec.Reason,
		PeriodType:  pt,
		PeriodStart: ranking.Period.Start,
		PeriodLabel: ranking.Period.Label,
		CreatedBy:   actor,
		CreatedAt:   w.now(),
	}
	if _, err := w.Store.SaveAward(ctx, award); err != nil {
		return nil, err
	}
	return &award, nil
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

// PreviewSuggestions generates without persisting.
func (w *Workflow) PreviewSuggestions(ctx context.Context, scope perf.Scope, pt perf.PeriodType, ref time.Time) ([]Suggestion, error) {
	ranking, err := w.Rank(ctx, scope, pt, ref)
	if err != nil {
		return nil, err
	}
	return GenerateSuggestions(ranking.All, w.Thresholds), nil
}

// GenerateAndPersist runs the generator and upserts every suggestion,
// reporting created vs updated vs untouched counts.
func (w *Workflow) GenerateAndPersist(ctx context.Context, scope perf.Scope, pt perf.PeriodType, ref time.Time, actor string) (*GenerationResult, error) {
	ranking, err := w.Rank(ctx, scope, pt, ref)
	if err != nil {
		return nil, err
	}
	suggestions := GenerateSuggestions(ranking.All, w.Thresholds)

	result := &GenerationResult{}
	now := w.now()
	for _, s := range suggestions {
		outcome, err := w.Store.UpsertSuggestion(ctx, PromotionSuggestion{
			ID:                uuid.NewString(),
			OrgID:             scope.OrgID,
			BranchID:          scope.BranchID,
			EmployeeID:        s.EmployeeID,
			Category:          s.Category,
			ScoreAtSuggestion: s.Score,
			Snapshot:          s.Snapshot,
			Reason:            s.Reason,
			Status:            StatusPending,
			PeriodType:        pt,
			PeriodStart:       ranking.Period.Start,
			PeriodLabel:       ranking.Period.Label,
			CreatedBy:         actor,
			CreatedAt:         now,
		})
		if err != nil {
			return nil, err
		}
		switch outcome {
		case OutcomeCreated:
			result.Created++
		case OutcomeUpdated:
			result.Updated++
		default:
			result.Untouched++
		}
	}
	return result, nil
}

// UpdateSuggestionStatus moves a suggestion through the state machine.
func (w *Workflow) UpdateSuggestionStatus(ctx context.Context, id string, status SuggestionStatus, actor, notes string) (*PromotionSuggestion, error) {
	existing, err := w.Store.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrSuggestionNotFound
	}
	if existing.Status.Decided() && existing.Status != status {
		return nil, &TransitionError{SuggestionID: id, From: existing.Status, To: status}
	}

	// The store re-checks the precondition atomically; this pre-check just
	// gives the common case a precise error without a write attempt.
	return w.Store.UpdateSuggestionStatus(ctx, id, status, actor, notes, w.now())
}
