package review_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/performance-engine/perf"
	"github.com/warp/performance-engine/review"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func staff(id string, rank int, composite float64) perf.RankedStaff {
	return perf.RankedStaff{
		EmployeeID:     perf.EmployeeID(id),
		EmployeeName:   id,
		Rank:           rank,
		CompositeScore: composite,
		Performance: perf.PerformanceMetric{
			EmployeeID:   perf.EmployeeID(id),
			TotalSales:   decimal.Zero,
			AvgCheckSize: decimal.Zero,
		},
		IsEligible: true,
	}
}

// =============================================================================
// AWARD SELECTION TESTS
// =============================================================================

func TestSelectAward_EmptySet_ReturnsNil(t *testing.T) {
	rec := review.SelectAward(nil, review.AwardTopPerformer, "March 2025")
	assert.Nil(t, rec, "no eligible staff means no recommendation, not an error")
}

func TestSelectAward_TopPerformer_TakesCompositeLeader(t *testing.T) {
	eligible := []perf.RankedStaff{
		staff("emp-1", 1, 0.9),
		staff("emp-2", 2, 0.7),
	}

	rec := review.SelectAward(eligible, review.AwardTopPerformer, "March 2025")
	require.NotNil(t, rec)
	assert.Equal(t, perf.EmployeeID("emp-1"), rec.EmployeeID)
	assert.Equal(t, 1, rec.Rank)
	assert.InDelta(t, 0.9, rec.Score, 1e-9)
	assert.Contains(t, rec.Reason, "ranked #1")
}

func TestSelectAward_HighestSales_IgnoresCompositeOrder(t *testing.T) {
	// GIVEN: The composite leader sold less than the runner-up
	// WHEN: Selecting HIGHEST_SALES
	// THEN: The raw sales leader wins

	first := staff("emp-1", 1, 0.9)
	first.Performance.TotalSales = decimal.NewFromInt(500)
	second := staff("emp-2", 2, 0.7)
	second.Performance.TotalSales = decimal.NewFromInt(900)

	rec := review.SelectAward([]perf.RankedStaff{first, second}, review.AwardHighestSales, "March 2025")
	require.NotNil(t, rec)
	assert.Equal(t, perf.EmployeeID("emp-2"), rec.EmployeeID)
	assert.Contains(t, rec.Reason, "led March 2025 in sales")
}

func TestSelectAward_BestService_HighestAvgCheck(t *testing.T) {
	first := staff("emp-1", 1, 0.9)
	first.Performance.AvgCheckSize = decimal.NewFromInt(120)
	second := staff("emp-2", 2, 0.7)
	second.Performance.AvgCheckSize = decimal.NewFromInt(180)

	rec := review.SelectAward([]perf.RankedStaff{first, second}, review.AwardBestService, "March 2025")
	require.NotNil(t, rec)
	assert.Equal(t, perf.EmployeeID("emp-2"), rec.EmployeeID)
}

func TestSelectAward_MostReliable(t *testing.T) {
	first := staff("emp-1", 1, 0.9)
	first.ReliabilityScore = 0.3
	second := staff("emp-2", 2, 0.7)
	second.ReliabilityScore = 0.5
	second.Reliability.AttendanceRate = 1.0
	second.Reliability.ShiftsWorked = 20

	rec := review.SelectAward([]perf.RankedStaff{first, second}, review.AwardMostReliable, "March 2025")
	require.NotNil(t, rec)
	assert.Equal(t, perf.EmployeeID("emp-2"), rec.EmployeeID)
	assert.Contains(t, rec.Reason, "100% attendance over 20 shifts")
}

func TestSelectAward_MostImproved_FallsBackToTopPerformer(t *testing.T) {
	// No prior-period trend exists yet; the composite leader wins and the
	// reason says the pick is a fallback.
	eligible := []perf.RankedStaff{staff("emp-1", 1, 0.9), staff("emp-2", 2, 0.7)}

	rec := review.SelectAward(eligible, review.AwardMostImproved, "March 2025")
	require.NotNil(t, rec)
	assert.Equal(t, perf.EmployeeID("emp-1"), rec.EmployeeID)
	assert.Contains(t, rec.Reason, "falls back")
}

func TestSelectAward_DoesNotReorderCallerSlice(t *testing.T) {
	first := staff("emp-1", 1, 0.9)
	first.Performance.TotalSales = decimal.NewFromInt(100)
	second := staff("emp-2", 2, 0.7)
	second.Performance.TotalSales = decimal.NewFromInt(900)
	eligible := []perf.RankedStaff{first, second}

	review.SelectAward(eligible, review.AwardHighestSales, "March 2025")

	assert.Equal(t, perf.EmployeeID("emp-1"), eligible[0].EmployeeID, "caller's slice must keep composite order")
}

func TestSelectAward_ZeroVoidCallout(t *testing.T) {
	winner := staff("emp-1", 1, 0.9)
	winner.Performance.OrderCount = 40
	winner.Performance.VoidCount = 0

	rec := review.SelectAward([]perf.RankedStaff{winner}, review.AwardTopPerformer, "March 2025")
	require.NotNil(t, rec)
	assert.Contains(t, rec.Reason, "Zero voids")
}

func TestSelectAward_MinorRiskDisclaimer(t *testing.T) {
	winner := staff("emp-1", 1, 0.9)
	winner.RiskFlags = []perf.RiskFlag{{Code: "LATE_CLOCKOUT", Severity: perf.SeverityWarn}}

	rec := review.SelectAward([]perf.RankedStaff{winner}, review.AwardTopPerformer, "March 2025")
	require.NotNil(t, rec)
	assert.Contains(t, rec.Reason, "minor risk flag")
}
