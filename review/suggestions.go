/*
suggestions.go - Suggestion Generator

PURPOSE:
  Evaluates independent threshold rules against every ranked employee and
  emits zero-or-more promotion/training/review suggestions. Eligibility only
  gates awards - a filtered-out employee can still need training.

CATEGORIES:
  PROMOTION           composite >= threshold AND tenure >= minimum AND
                      attendance >= 0.90 AND not critical-risk
  TRAINING            first-match-wins ordered rule list (upsell, POS
                      discipline, suggestive selling); tenure >= 1 month
  PERFORMANCE_REVIEW  composite >= 0.85 (fast-track) or <= 0.50
                      (improvement plan)

  The training chain is an explicit ordered list of (predicate, reason)
  pairs so the policy stays data-driven and testable rule by rule.
*/
package review

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/performance-engine/perf"
)

// =============================================================================
// THRESHOLDS
// =============================================================================

// SuggestionThresholds parameterizes the generator. Overridable per tenant.
type SuggestionThresholds struct {
	PromotionMinScore      float64 `json:"promotion_min_score"`
	PromotionMinTenure     int     `json:"promotion_min_tenure_months"`
	PromotionMinAttendance float64 `json:"promotion_min_attendance"`

	TrainingMinTenure   int     `json:"training_min_tenure_months"`
	UpsellAvgCheckFloor float64 `json:"upsell_avg_check_floor"`
	VoidRatioCeiling    float64 `json:"void_ratio_ceiling"`
	NoDrinksCeiling     float64 `json:"no_drinks_ceiling"`

	FastTrackScore       float64 `json:"fast_track_score"`
	ImprovementPlanScore float64 `json:"improvement_plan_score"`
}

// DefaultSuggestionThresholds returns the standard rule parameters.
func DefaultSuggestionThresholds() SuggestionThresholds {
	return SuggestionThresholds{
		PromotionMinScore:      0.70,
		PromotionMinTenure:     3,
		PromotionMinAttendance: 0.90,
		TrainingMinTenure:      1,
		UpsellAvgCheckFloor:    15000,
		VoidRatioCeiling:       0.05,
		NoDrinksCeiling:        0.10,
		FastTrackScore:         0.85,
		ImprovementPlanScore:   0.50,
	}
}

// =============================================================================
// TRAINING RULE CHAIN - Ordered, first match wins
// =============================================================================

type trainingRule struct {
	name   string
	match  func(perf.RankedStaff, SuggestionThresholds) bool
	reason func(perf.RankedStaff, SuggestionThresholds) string
}

var trainingRules = []trainingRule{
	{
		name: "upsell",
		match: func(s perf.RankedStaff, t SuggestionThresholds) bool {
			return s.Performance.AvgCheckSize.LessThan(decimal.NewFromFloat(t.UpsellAvgCheckFloor))
		},
		reason: func(s perf.RankedStaff, t SuggestionThresholds) string {
			return fmt.Sprintf("Average check %s is below the %.0f target. Recommend upsell training.",
				s.Performance.AvgCheckSize.StringFixed(2), t.UpsellAvgCheckFloor)
		},
	},
	{
		name: "pos-discipline",
		match: func(s perf.RankedStaff, t SuggestionThresholds) bool {
			if s.Performance.OrderCount == 0 {
				return false
			}
			return float64(s.Performance.VoidCount)/float64(s.Performance.OrderCount) > t.VoidRatioCeiling
		},
		reason: func(s perf.RankedStaff, t SuggestionThresholds) string {
			return fmt.Sprintf("Void ratio %d/%d exceeds %.0f%%. Recommend POS handling training.",
				s.Performance.VoidCount, s.Performance.OrderCount, t.VoidRatioCeiling*100)
		},
	},
	{
		name: "suggestive-selling",
		match: func(s perf.RankedStaff, t SuggestionThresholds) bool {
			return s.Performance.NoDrinksRate > t.NoDrinksCeiling
		},
		reason: func(s perf.RankedStaff, t SuggestionThresholds) string {
			return fmt.Sprintf("%.0f%% of orders went out without beverages. Recommend suggestive-selling training.",
				s.Performance.NoDrinksRate*100)
		},
	},
}

// =============================================================================
// GENERATOR
// =============================================================================

// GenerateSuggestions evaluates every entry - eligible or not - against all
// three categories. One employee yields 0-3 suggestions.
func GenerateSuggestions(ranked []perf.RankedStaff, t SuggestionThresholds) []Suggestion {
	var out []Suggestion
	for _, s := range ranked {
		if sg := promotionSuggestion(s, t); sg != nil {
			out = append(out, *sg)
		}
		if sg := trainingSuggestion(s, t); sg != nil {
			out = append(out, *sg)
		}
		if sg := reviewSuggestion(s, t); sg != nil {
			out = append(out, *sg)
		}
	}
	return out
}

func promotionSuggestion(s perf.RankedStaff, t SuggestionThresholds) *Suggestion {
	if s.CompositeScore < t.PromotionMinScore ||
		s.TenureMonths < t.PromotionMinTenure ||
		s.Reliability.AttendanceRate < t.PromotionMinAttendance ||
		s.IsCriticalRisk {
		return nil
	}
	return &Suggestion{
		EmployeeID: s.EmployeeID,
		Category:   SuggestPromotion,
		Score:      s.CompositeScore,
		Reason: fmt.Sprintf("Composite score %.2f with %d months tenure and %.0f%% attendance. Ready for promotion consideration.",
			s.CompositeScore, s.TenureMonths, s.Reliability.AttendanceRate*100),
		Snapshot: snapshot(s),
	}
}

func trainingSuggestion(s perf.RankedStaff, t SuggestionThresholds) *Suggestion {
	if s.TenureMonths < t.TrainingMinTenure {
		return nil
	}
	for _, rule := range trainingRules {
		if rule.match(s, t) {
			return &Suggestion{
				EmployeeID: s.EmployeeID,
				Category:   SuggestTraining,
				Score:      s.CompositeScore,
				Reason:     rule.reason(s, t),
				Snapshot:   snapshot(s),
			}
		}
	}
	return nil
}

func reviewSuggestion(s perf.RankedStaff, t SuggestionThresholds) *Suggestion {
	var reason string
	switch {
	case s.CompositeScore >= t.FastTrackScore:
		reason = fmt.Sprintf("Composite score %.2f - schedule a fast-track performance review.", s.CompositeScore)
	case s.CompositeScore <= t.ImprovementPlanScore:
		reason = fmt.Sprintf("Composite score %.2f - schedule a review to agree an improvement plan.", s.CompositeScore)
	default:
		return nil
	}
	return &Suggestion{
		EmployeeID: s.EmployeeID,
		Category:   SuggestPerformanceReview,
		Score:      s.CompositeScore,
		Reason:     reason,
		Snapshot:   snapshot(s),
	}
}

func snapshot(s perf.RankedStaff) InsightsSnapshot {
	return InsightsSnapshot{
		CompositeScore:   s.CompositeScore,
		PerformanceScore: s.PerformanceScore,
		ReliabilityScore: s.ReliabilityScore,
		AttendanceRate:   s.Reliability.AttendanceRate,
		TotalSales:       s.Performance.TotalSales.StringFixed(2),
		OrderCount:       s.Performance.OrderCount,
		AvgCheckSize:     s.Performance.AvgCheckSize.StringFixed(2),
		VoidCount:        s.Performance.VoidCount,
		NoDrinksRate:     s.Performance.NoDrinksRate,
		TenureMonths:     s.TenureMonths,
		Rank:             s.Rank,
	}
}
