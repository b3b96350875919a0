/*
awards.go - Award Selector

PURPOSE:
  Picks a category-specific winner from the eligible ranking and builds the
  natural-language justification shown to managers.

SELECTION:
  TOP_PERFORMER  first entry of the composite-sorted eligible list
  HIGHEST_SALES  highest raw totalSales
  BEST_SERVICE   highest raw avgCheckSize
  MOST_RELIABLE  highest reliabilityScore
  MOST_IMPROVED  no trend algorithm defined yet; falls back to the
                 TOP_PERFORMER pick and says so in the reason

  Category re-sorts always operate on a defensive copy - the caller's
  eligible slice is shared with other consumers and must not be reordered.

EMPTY SET:
  An empty eligible list yields a nil recommendation, not an error.
*/
package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/performance-engine/perf"
)

// SelectAward picks the winner for a category from the eligible ranking.
// Returns nil when the eligible set is empty.
func SelectAward(eligible []perf.RankedStaff, category AwardCategory, periodLabel string) *AwardRecommendation {
	if len(eligible) == 0 {
		return nil
	}

	winner := eligible[0]
	switch category {
	case AwardHighestSales:
		winner = topBy(eligible, func(a, b perf.RankedStaff) bool {
			return a.Performance.TotalSales.GreaterThan(b.Performance.TotalSales)
		})
	case AwardBestService:
		winner = topBy(eligible, func(a, b perf.RankedStaff) bool {
			return a.Performance.AvgCheckSize.GreaterThan(b.Performance.AvgCheckSize)
		})
	case AwardMostReliable:
		winner = topBy(eligible, func(a, b perf.RankedStaff) bool {
			return a.ReliabilityScore > b.ReliabilityScore
		})
	case AwardTopPerformer, AwardMostImproved:
		// Composite order already has the answer. MOST_IMPROVED needs a
		// prior-period comparison that is not defined yet.
	}

	return &AwardRecommendation{
		EmployeeID:   winner.EmployeeID,
		EmployeeName: winner.EmployeeName,
		Category:     category,
		Score:        winner.CompositeScore,
		Rank:         winner.Rank,
		Reason:       awardReason(winner, category, periodLabel),
		PeriodLabel:  periodLabel,
	}
}

// topBy returns the best entry of a copy sorted by less, leaving the input
// untouched. Ties keep the composite order, which itself tie-breaks by
// employee id.
func topBy(eligible []perf.RankedStaff, less func(a, b perf.RankedStaff) bool) perf.RankedStaff {
	cp := make([]perf.RankedStaff, len(eligible))
	copy(cp, eligible)
	sort.SliceStable(cp, func(i, j int) bool { return less(cp[i], cp[j]) })
	return cp[0]
}

func awardReason(w perf.RankedStaff, category AwardCategory, periodLabel string) string {
	name := w.EmployeeName
	if name == "" {
		name = string(w.EmployeeID)
	}

	var b strings.Builder
	switch category {
	case AwardHighestSales:
		fmt.Fprintf(&b, "%s led %s in sales with %s across %d orders.",
			name, periodLabel, w.Performance.TotalSales.StringFixed(2), w.Performance.OrderCount)
	case AwardBestService:
		fmt.Fprintf(&b, "%s delivered the highest average check in %s at %s.",
			name, periodLabel, w.Performance.AvgCheckSize.StringFixed(2))
	case AwardMostReliable:
		fmt.Fprintf(&b, "%s was the most reliable team member in %s: %.0f%% attendance over %d shifts.",
			name, periodLabel, w.Reliability.AttendanceRate*100, w.Reliability.ShiftsWorked)
	case AwardMostImproved:
		fmt.Fprintf(&b, "%s tops the composite ranking for %s (score %.2f). Trend comparison is not available yet, so this falls back to the top performer.",
			name, periodLabel, w.CompositeScore)
	default:
		fmt.Fprintf(&b, "%s ranked #1 in %s with a composite score of %.2f (%.0f%% attendance).",
			name, periodLabel, w.CompositeScore, w.Reliability.AttendanceRate*100)
	}

	if w.Performance.VoidCount == 0 && w.Performance.OrderCount > 0 {
		b.WriteString(" Zero voids in the period.")
	}
	if len(w.RiskFlags) > 0 && !w.IsCriticalRisk {
		fmt.Fprintf(&b, " Note: %d minor risk flag(s) on record for the same window.", len(w.RiskFlags))
	}
	return b.String()
}
