package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/performance-engine/factory"
	"github.com/warp/performance-engine/perf"
)

func parse(t *testing.T, jsonStr string) *factory.RuleSet {
	t.Helper()
	rs, err := factory.NewRuleFactory().ParseRuleSet(jsonStr)
	require.NoError(t, err)
	return rs
}

// =============================================================================
// DEFAULT LAYERING TESTS
// =============================================================================

func TestRuleFactory_EmptyRuleSet_KeepsAllDefaults(t *testing.T) {
	rs := parse(t, `{"org_id": "org-1"}`)

	assert.Equal(t, "org-1", rs.OrgID)
	assert.Equal(t, perf.DefaultScoringConfig(), rs.Scoring)
	assert.Empty(t, rs.Eligibility)

	defaults := rs.Thresholds
	assert.InDelta(t, 0.70, defaults.PromotionMinScore, 1e-9)
	assert.Equal(t, 3, defaults.PromotionMinTenure)
}

func TestRuleFactory_PartialScoringOverride(t *testing.T) {
	// Only the named weight changes; everything else keeps the default.
	rs := parse(t, `{"org_id": "org-1", "scoring": {"sales_weight": 0.55}}`)

	assert.InDelta(t, 0.55, rs.Scoring.SalesWeight, 1e-9)
	assert.InDelta(t, perf.DefaultScoringConfig().AvgCheckWeight, rs.Scoring.AvgCheckWeight, 1e-9)
	assert.InDelta(t, perf.DefaultScoringConfig().VoidPenaltyWeight, rs.Scoring.VoidPenaltyWeight, 1e-9)
}

func TestRuleFactory_ZeroWeightOverride_IsDistinctFromOmitted(t *testing.T) {
	rs := parse(t, `{"org_id": "org-1", "scoring": {"avg_check_weight": 0}}`)

	assert.Zero(t, rs.Scoring.AvgCheckWeight)
	assert.InDelta(t, perf.DefaultScoringConfig().SalesWeight, rs.Scoring.SalesWeight, 1e-9)
}

func TestRuleFactory_EligibilityOverride_MergesOverPeriodDefaults(t *testing.T) {
	rs := parse(t, `{
		"org_id": "org-1",
		"eligibility": {"MONTH": {"min_shifts_worked": 15}}
	}`)

	rules, ok := rs.Eligibility[perf.PeriodMonth]
	require.True(t, ok)
	assert.Equal(t, 15, rules.MinShiftsWorked)

	// Untouched fields keep the MONTH defaults
	defaults := perf.RulesForPeriod(perf.PeriodMonth)
	require.NotNil(t, rules.MaxAbsenceRate)
	assert.InDelta(t, *defaults.MaxAbsenceRate, *rules.MaxAbsenceRate, 1e-9)
	assert.Equal(t, defaults.RequireActiveStatus, rules.RequireActiveStatus)
}

func TestRuleFactory_ThresholdOverride(t *testing.T) {
	rs := parse(t, `{
		"org_id": "org-1",
		"thresholds": {"promotion_min_score": 0.80, "upsell_avg_check_floor": 20000}
	}`)

	assert.InDelta(t, 0.80, rs.Thresholds.PromotionMinScore, 1e-9)
	assert.InDelta(t, 20000, rs.Thresholds.UpsellAvgCheckFloor, 1e-9)
	assert.Equal(t, 3, rs.Thresholds.PromotionMinTenure, "omitted threshold keeps default")
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestRuleFactory_Validation(t *testing.T) {
	tests := []struct {
		name    string
		jsonStr string
		errPart string
	}{
		{"malformed json", `{"org_id":`, "failed to parse"},
		{"negative weight", `{"scoring": {"sales_weight": -0.1}}`, "must not be negative"},
		{"all weights zero",
			`{"scoring": {"sales_weight": 0, "avg_check_weight": 0, "void_penalty_weight": 0,
			 "discount_penalty_weight": 0, "no_drinks_penalty_weight": 0, "anomaly_penalty_weight": 0}}`,
			"at least one weight"},
		{"unknown period type", `{"eligibility": {"FORTNIGHT": {}}}`, "unknown period type"},
		{"negative min shifts", `{"eligibility": {"MONTH": {"min_shifts_worked": -1}}}`, "min_shifts_worked"},
		{"absence rate above one", `{"eligibility": {"MONTH": {"max_absence_rate": 1.5}}}`, "max_absence_rate"},
		{"promotion score above one", `{"thresholds": {"promotion_min_score": 1.2}}`, "promotion_min_score"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := factory.NewRuleFactory().ParseRuleSet(tc.jsonStr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

// =============================================================================
// ROUNDTRIP TESTS
// =============================================================================

func TestRuleFactory_ToJSON_Roundtrip(t *testing.T) {
	original := parse(t, `{
		"org_id": "org-1",
		"scoring": {"sales_weight": 0.50},
		"eligibility": {"WEEK": {"min_shifts_worked": 4}},
		"thresholds": {"fast_track_score": 0.90}
	}`)

	f := factory.NewRuleFactory()
	back, err := f.FromJSON(f.ToJSON(original))
	require.NoError(t, err)

	assert.Equal(t, original.OrgID, back.OrgID)
	assert.Equal(t, original.Scoring, back.Scoring)
	assert.Equal(t, original.Thresholds, back.Thresholds)
	require.Contains(t, back.Eligibility, perf.PeriodWeek)
	assert.Equal(t, 4, back.Eligibility[perf.PeriodWeek].MinShiftsWorked)
}
