package perf_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/performance-engine/perf"
)

// =============================================================================
// PIPELINE TESTS
// =============================================================================

func pipelineFixture() *fakeData {
	data := &fakeData{
		employees: []perf.Employee{
			{ID: "emp-1", Name: "Aruzhan", Active: true, HireDate: day(1).AddDate(-1, 0, 0)},
			{ID: "emp-2", Name: "Bolat", Active: true, HireDate: day(1).AddDate(-1, 0, 0)},
		},
		orders: []perf.Order{
			closedOrder("o-1", "emp-1", 1000),
			closedOrder("o-2", "emp-1", 1000),
			closedOrder("o-3", "emp-2", 300),
		},
	}
	for d := 1; d <= 12; d++ {
		for _, id := range []string{"emp-1", "emp-2"} {
			data.shifts = append(data.shifts, perf.DutyShift{
				ID: id + day(d).Format("-02"), EmployeeID: perf.EmployeeID(id), Date: day(d),
			})
			data.attendance = append(data.attendance, perf.AttendanceRecord{
				EmployeeID: perf.EmployeeID(id), Date: day(d), Status: perf.AttendancePresent,
			})
		}
	}
	return data
}

func TestEngine_Rank_EndToEnd(t *testing.T) {
	// GIVEN: Two active employees with orders and full attendance
	// WHEN: Running the monthly pipeline
	// THEN: Both are ranked, the higher seller first, and both pass the
	//       MONTH eligibility gate

	data := pipelineFixture()
	engine := perf.NewEngine(data.sources())

	ranking, err := engine.RankAt(context.Background(), perf.Scope{OrgID: "org"},
		perf.PeriodMonth, testDay, perf.DefaultScoringConfig(), nil)
	require.NoError(t, err)

	require.Len(t, ranking.All, 2)
	assert.Equal(t, perf.EmployeeID("emp-1"), ranking.All[0].EmployeeID)
	assert.Equal(t, 1, ranking.All[0].Rank)
	assert.Equal(t, "Aruzhan", ranking.All[0].EmployeeName)
	assert.Greater(t, ranking.All[0].CompositeScore, ranking.All[1].CompositeScore)

	assert.Len(t, ranking.Eligible, 2)
}

func TestEngine_Rank_RiskSourceOutage_Degrades(t *testing.T) {
	// GIVEN: The risk source collaborator is down
	// WHEN: Running the pipeline
	// THEN: The ranking succeeds with no flags attached

	data := pipelineFixture()
	data.riskErr = errors.New("risk service timeout")
	engine := perf.NewEngine(data.sources())

	ranking, err := engine.RankAt(context.Background(), perf.Scope{OrgID: "org"},
		perf.PeriodMonth, testDay, perf.DefaultScoringConfig(), nil)
	require.NoError(t, err)

	for _, e := range ranking.All {
		assert.Empty(t, e.RiskFlags)
		assert.False(t, e.IsCriticalRisk)
	}
}

func TestEngine_Rank_OrderSourceFailure_Aborts(t *testing.T) {
	data := pipelineFixture()
	data.ordersErr = errors.New("pos database unreachable")
	engine := perf.NewEngine(data.sources())

	_, err := engine.RankAt(context.Background(), perf.Scope{OrgID: "org"},
		perf.PeriodMonth, testDay, perf.DefaultScoringConfig(), nil)

	var srcErr *perf.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "orders", srcErr.Source)
}

func TestEngine_Rank_CriticalRiskGatesEligibilityOnly(t *testing.T) {
	// GIVEN: emp-1 carries a CRITICAL flag
	// WHEN: Running the pipeline
	// THEN: emp-1 stays in the full ranking (and the risk-staff view) but
	//       drops out of the eligible list

	data := pipelineFixture()
	data.risk = map[perf.EmployeeID][]perf.RiskFlag{
		"emp-1": {{Code: "CASH_DRAWER", Severity: perf.SeverityCritical}},
	}
	engine := perf.NewEngine(data.sources())

	ranking, err := engine.RankAt(context.Background(), perf.Scope{OrgID: "org"},
		perf.PeriodMonth, testDay, perf.DefaultScoringConfig(), nil)
	require.NoError(t, err)

	assert.Len(t, ranking.All, 2)
	require.Len(t, ranking.Eligible, 1)
	assert.Equal(t, perf.EmployeeID("emp-2"), ranking.Eligible[0].EmployeeID)
	assert.Equal(t, 1, ranking.Eligible[0].Rank)

	// The critical-risk employee still shows up in the bottom view.
	bottom := ranking.Bottom(2)
	ids := []perf.EmployeeID{bottom[0].EmployeeID, bottom[1].EmployeeID}
	assert.Contains(t, ids, perf.EmployeeID("emp-1"))
}

func TestRanking_TopAndBottom_BoundedBySetSize(t *testing.T) {
	data := pipelineFixture()
	engine := perf.NewEngine(data.sources())

	ranking, err := engine.RankAt(context.Background(), perf.Scope{OrgID: "org"},
		perf.PeriodMonth, testDay, perf.DefaultScoringConfig(), nil)
	require.NoError(t, err)

	assert.Len(t, ranking.Top(10), 2)
	bottom := ranking.Bottom(10)
	require.Len(t, bottom, 2)
	// Bottom is ordered worst-first
	assert.Equal(t, perf.EmployeeID("emp-2"), bottom[0].EmployeeID)
}
