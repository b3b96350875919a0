/*
ranking.go - Composite Ranker

PURPOSE:
  Merges performance scores with reliability scores by employee id, blends
  them into a composite score, attaches risk flags, and assigns dense ranks.

MERGE POLICY:
  The two sides are joined symmetrically:
  - performance-only employee: zero-valued reliability record
  - reliability-only employee: zero-valued performance record
  Nobody observed in the window is dropped.

RANKING:
  compositeScore = performanceScore*0.7 + reliabilityScore*0.3, clamped to
  [0,1]. Ranks are 1..N descending by composite score; ties break by
  ascending employee id so rank assignment is reproducible.
*/
package perf

import (
	"sort"
	"time"
)

// Composite blend weights.
const (
	performanceShare = 0.70
	reliabilityShare = 0.30
)

// MergeAndRank joins scored performance metrics with reliability metrics,
// attaches risk flags, and assigns dense ranks over the full set. Eligibility
// is decided afterwards by the eligibility filter.
func MergeAndRank(
	scored []ScoredMetric,
	reliability []ReliabilityMetric,
	roster []Employee,
	risk map[EmployeeID][]RiskFlag,
	asOf time.Time,
) []RankedStaff {
	byID := make(map[EmployeeID]*RankedStaff, len(scored))

	for _, s := range scored {
		byID[s.Metric.EmployeeID] = &RankedStaff{
			EmployeeID:       s.Metric.EmployeeID,
			EmployeeName:     s.Metric.EmployeeName,
			Performance:      s.Metric,
			Breakdown:        s.Breakdown,
			PerformanceScore: s.Score,
		}
	}

	for _, r := range reliability {
		entry, ok := byID[r.EmployeeID]
		if !ok {
			// Worked shifts but sold nothing: still rankable.
			entry = &RankedStaff{
				EmployeeID:  r.EmployeeID,
				Performance: PerformanceMetric{EmployeeID: r.EmployeeID},
			}
			byID[r.EmployeeID] = entry
		}
		entry.Reliability = r
		entry.ReliabilityScore = r.ReliabilityScore
	}

	for _, e := range roster {
		if entry, ok := byID[e.ID]; ok {
			entry.EmployeeName = e.Name
			entry.Active = e.Active
			entry.TenureMonths = e.TenureMonths(asOf)
		}
	}

	ranked := make([]RankedStaff, 0, len(byID))
	for _, entry := range byID {
		entry.CompositeScore = clamp01(entry.PerformanceScore*performanceShare + entry.ReliabilityScore*reliabilityShare)

		for _, f := range risk[entry.EmployeeID] {
			entry.RiskFlags = append(entry.RiskFlags, f)
			if f.Severity == SeverityCritical {
				entry.IsCriticalRisk = true
			}
		}

		ranked = append(ranked, *entry)
	}

	AssignRanks(ranked)
	return ranked
}

// AssignRanks sorts descending by composite score (ties by ascending
// employee id) and writes the dense 1..N rank sequence in place.
func AssignRanks(entries []RankedStaff) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CompositeScore != entries[j].CompositeScore {
			return entries[i].CompositeScore > entries[j].CompositeScore
		}
		return entries[i].EmployeeID < entries[j].EmployeeID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
