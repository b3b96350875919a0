/*
Package factory provides JSON to Go rule-set conversion.

PURPOSE:
  Converts JSON tenant configuration into perf.ScoringConfig,
  perf.EligibilityRules and review.SuggestionThresholds objects. This
  enables rule configuration without code changes - operations staff can
  tune scoring weights and eligibility gates in JSON, and the factory
  creates the proper Go structs.

WHY JSON?
  - Non-developers can tune the weights per organization
  - Easy integration with an admin UI
  - Version control for rule definitions
  - Database storage of tenant configs

JSON SCHEMA:
  {
    "org_id": "org-42",
    "scoring": {
      "sales_weight": 0.40,
      "avg_check_weight": 0.20,
      "void_penalty_weight": 0.15,
      "discount_penalty_weight": 0.10,
      "no_drinks_penalty_weight": 0.05,
      "anomaly_penalty_weight": 0.10
    },
    "eligibility": {
      "MONTH": {"min_shifts_worked": 10, "max_absence_rate": 0.20}
    },
    "thresholds": {
      "promotion_min_score": 0.70,
      "promotion_min_tenure_months": 3
    }
  }

KEY FEATURES:
  - Validates weight sets (non-negative, at least one positive weight)
  - Falls back to the built-in defaults for anything omitted
  - Per-period eligibility overrides merge over RulesForPeriod defaults

USAGE:
  f := NewRuleFactory()
  rules, err := f.ParseRuleSet(jsonString)
  wf := review.NewWorkflow(engine, store)
  wf.Scoring = rules.Scoring
  wf.Rules = rules.Eligibility
  wf.Thresholds = rules.Thresholds

SEE ALSO:
  - perf/scoring.go: ScoringConfig and the weighted score model
  - perf/eligibility.go: EligibilityRules and the period defaults
  - review/suggestions.go: SuggestionThresholds
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleSetJSON is the JSON representation of one tenant's rule set.
type RuleSetJSON struct {
	OrgID       string                     `json:"org_id"`
	Scoring     *ScoringJSON               `json:"scoring,omitempty"`
	Eligibility map[string]EligibilityJSON `json:"eligibility,omitempty"` // keyed by period type
	Thresholds  *ThresholdsJSON            `json:"thresholds,omitempty"`
}

// ScoringJSON mirrors perf.ScoringConfig. Omitted weights keep the default.
type ScoringJSON struct {
	SalesWeight           *float64 `json:"sales_weight,omitempty"`
	AvgCheckWeight        *float64 `json:"avg_check_weight,omitempty"`
	VoidPenaltyWeight     *float64 `json:"void_penalty_weight,omitempty"`
	DiscountPenaltyWeight *float64 `json:"discount_penalty_weight,omitempty"`
	NoDrinksPenaltyWeight *float64 `json:"no_drinks_penalty_weight,omitempty"`
	AnomalyPenaltyWeight  *float64 `json:"anomaly_penalty_weight,omitempty"`
}

// EligibilityJSON overrides the default gate for one period type.
type EligibilityJSON struct {
	MinShiftsWorked     *int     `json:"min_shifts_worked,omitempty"`
	MaxAbsenceRate      *float64 `json:"max_absence_rate,omitempty"`
	RequireActiveStatus *bool    `json:"require_active_status,omitempty"`
	ExcludeCriticalRisk *bool    `json:"exclude_critical_risk,omitempty"`
}

// ThresholdsJSON overrides suggestion rule parameters.
type ThresholdsJSON struct {
	PromotionMinScore      *float64 `json:"promotion_min_score,omitempty"`
	PromotionMinTenure     *int     `json:"promotion_min_tenure_months,omitempty"`
	PromotionMinAttendance *float64 `json:"promotion_min_attendance,omitempty"`
	TrainingMinTenure      *int     `json:"training_min_tenure_months,omitempty"`
	UpsellAvgCheckFloor    *float64 `json:"upsell_avg_check_floor,omitempty"`
	VoidRatioCeiling       *float64 `json:"void_ratio_ceiling,omitempty"`
	NoDrinksCeiling        *float64 `json:"no_drinks_ceiling,omitempty"`
	FastTrackScore         *float64 `json:"fast_track_score,omitempty"`
	ImprovementPlanScore   *float64 `json:"improvement_plan_score,omitempty"`
}

// RuleSet is the resolved, validated configuration for one org.
type RuleSet struct {
	OrgID       string
	Scoring     perf.ScoringConfig
	Eligibility map[perf.PeriodType]perf.EligibilityRules
	Thresholds  review.SuggestionThresholds
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts JSON rule sets to Go structs.
type RuleFactory struct{}

// NewRuleFactory creates a new rule factory.
func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParseRuleSet parses a JSON string into a resolved RuleSet.
func (f *RuleFactory) ParseRuleSet(jsonStr string) (*RuleSet, error) {
	var rj RuleSetJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("failed to parse rule set JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// FromJSON converts RuleSetJSON to a RuleSet, layering each override over
// the built-in defaults and validating the result.
func (f *RuleFactory) FromJSON(rj RuleSetJSON) (*RuleSet, error) {
	rs := &RuleSet{
		OrgID:       rj.OrgID,
		Scoring:     perf.DefaultScoringConfig(),
		Eligibility: map[perf.PeriodType]perf.EligibilityRules{},
		Thresholds:  review.DefaultSuggestionThresholds(),
	}

	if rj.Scoring != nil {
		applyScoring(&rs.Scoring, *rj.Scoring)
	}
	if err := validateScoring(rs.Scoring); err != nil {
		return nil, err
	}

	for key, ej := range rj.Eligibility {
		pt, ok := perf.ParsePeriodType(key)
		if !ok {
			return nil, fmt.Errorf("eligibility: unknown period type %q", key)
		}
		rules := perf.RulesForPeriod(pt)
		applyEligibility(&rules, ej)
		if rules.MinShiftsWorked < 0 {
			return nil, fmt.Errorf("eligibility %s: min_shifts_worked must not be negative", pt)
		}
		if rules.MaxAbsenceRate != nil && (*rules.MaxAbsenceRate < 0 || *rules.MaxAbsenceRate > 1) {
			return nil, fmt.Errorf("eligibility %s: max_absence_rate must be within [0, 1]", pt)
		}
		rs.Eligibility[pt] = rules
	}

	if rj.Thresholds != nil {
		applyThresholds(&rs.Thresholds, *rj.Thresholds)
	}
	if rs.Thresholds.PromotionMinScore < 0 || rs.Thresholds.PromotionMinScore > 1 {
		return nil, fmt.Errorf("thresholds: promotion_min_score must be within [0, 1]")
	}

	return rs, nil
}

// ToJSON converts a RuleSet back to its JSON representation.
func (f *RuleFactory) ToJSON(rs *RuleSet) RuleSetJSON {
	rj := RuleSetJSON{
		OrgID: rs.OrgID,
		Scoring: &ScoringJSON{
			SalesWeight:           &rs.Scoring.SalesWeight,
			AvgCheckWeight:        &rs.Scoring.AvgCheckWeight,
			VoidPenaltyWeight:     &rs.Scoring.VoidPenaltyWeight,
			DiscountPenaltyWeight: &rs.Scoring.DiscountPenaltyWeight,
			NoDrinksPenaltyWeight: &rs.Scoring.NoDrinksPenaltyWeight,
			AnomalyPenaltyWeight:  &rs.Scoring.AnomalyPenaltyWeight,
		},
		Thresholds: &ThresholdsJSON{
			PromotionMinScore:      &rs.Thresholds.PromotionMinScore,
			PromotionMinTenure:     &rs.Thresholds.PromotionMinTenure,
			PromotionMinAttendance: &rs.Thresholds.PromotionMinAttendance,
			TrainingMinTenure:      &rs.Thresholds.TrainingMinTenure,
			UpsellAvgCheckFloor:    &rs.Thresholds.UpsellAvgCheckFloor,
			VoidRatioCeiling:       &rs.Thresholds.VoidRatioCeiling,
			NoDrinksCeiling:        &rs.Thresholds.NoDrinksCeiling,
			FastTrackScore:         &rs.Thresholds.FastTrackScore,
			ImprovementPlanScore:   &rs.Thresholds.ImprovementPlanScore,
		},
	}
	if len(rs.Eligibility) > 0 {
		rj.Eligibility = map[string]EligibilityJSON{}
		for pt, rules := range rs.Eligibility {
			min := rules.MinShiftsWorked
			active := rules.RequireActiveStatus
			critical := rules.ExcludeCriticalRisk
			rj.Eligibility[string(pt)] = EligibilityJSON{
				MinShiftsWorked:     &min,
				MaxAbsenceRate:      rules.MaxAbsenceRate,
				RequireActiveStatus: &active,
				ExcludeCriticalRisk: &critical,
			}
		}
	}
	return rj
}

// =============================================================================
// OVERRIDE APPLICATION
// =============================================================================

func applyScoring(cfg *perf.ScoringConfig, sj ScoringJSON) {
	setFloat(&cfg.SalesWeight, sj.SalesWeight)
	setFloat(&cfg.AvgCheckWeight, sj.AvgCheckWeight)
	setFloat(&cfg.VoidPenaltyWeight, sj.VoidPenaltyWeight)
	setFloat(&cfg.DiscountPenaltyWeight, sj.DiscountPenaltyWeight)
	setFloat(&cfg.NoDrinksPenaltyWeight, sj.NoDrinksPenaltyWeight)
	setFloat(&cfg.AnomalyPenaltyWeight, sj.AnomalyPenaltyWeight)
}

func applyEligibility(rules *perf.EligibilityRules, ej EligibilityJSON) {
	if ej.MinShiftsWorked != nil {
		rules.MinShiftsWorked = *ej.MinShiftsWorked
	}
	if ej.MaxAbsenceRate != nil {
		rules.MaxAbsenceRate = ej.MaxAbsenceRate
	}
	if ej.RequireActiveStatus != nil {
		rules.RequireActiveStatus = *ej.RequireActiveStatus
	}
	if ej.ExcludeCriticalRisk != nil {
		rules.ExcludeCriticalRisk = *ej.ExcludeCriticalRisk
	}
}

func applyThresholds(t *review.SuggestionThresholds, tj ThresholdsJSON) {
	setFloat(&t.PromotionMinScore, tj.PromotionMinScore)
	setInt(&t.PromotionMinTenure, tj.PromotionMinTenure)
	setFloat(&t.PromotionMinAttendance, tj.PromotionMinAttendance)
	setInt(&t.TrainingMinTenure, tj.TrainingMinTenure)
	setFloat(&t.UpsellAvgCheckFloor, tj.UpsellAvgCheckFloor)
	setFloat(&t.VoidRatioCeiling, tj.VoidRatioCeiling)
	setFloat(&t.NoDrinksCeiling, tj.NoDrinksCeiling)
	setFloat(&t.FastTrackScore, tj.FastTrackScore)
	setFloat(&t.ImprovementPlanScore, tj.ImprovementPlanScore)
}

func validateScoring(cfg perf.ScoringConfig) error {
	weights := map[string]float64{
		"sales_weight":             cfg.SalesWeight,
		"avg_check_weight":         cfg.AvgCheckWeight,
		"void_penalty_weight":      cfg.VoidPenaltyWeight,
		"discount_penalty_weight":  cfg.DiscountPenaltyWeight,
		"no_drinks_penalty_weight": cfg.NoDrinksPenaltyWeight,
		"anomaly_penalty_weight":   cfg.AnomalyPenaltyWeight,
	}
	positive := false
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("scoring: %s must not be negative", name)
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("scoring: at least one weight must be positive")
	}
	return nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
