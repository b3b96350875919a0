/*
eligibility.go - Award eligibility rules

PURPOSE:
  Removes ranked entries that fail the period-dependent minimum-shift,
  absence, status, and risk rules, recording a human-readable reason on each
  exclusion, then re-ranks the survivors.

RULE TABLE (by period type):
  WEEK:    minShiftsWorked=3,   no absence cap
  MONTH:   minShiftsWorked=10,  maxAbsenceRate=0.20
  QUARTER: minShiftsWorked=30,  maxAbsenceRate=0.15
  YEAR:    minShiftsWorked=120, maxAbsenceRate=0.15
  All periods require active status and exclude critical risk.

EVALUATION ORDER:
  Per employee, first failing check wins:
    1. critical-risk exclusion
    2. inactive status
    3. shiftsWorked below minimum
    4. absence rate above cap (when a cap applies)
*/
package perf

import "fmt"

// EligibilityRules is the period-dependent gate an employee must pass before
// winning an award.
type EligibilityRules struct {
	MinShiftsWorked     int      `json:"min_shifts_worked"`
	MaxAbsenceRate      *float64 `json:"max_absence_rate,omitempty"` // nil = no cap
	RequireActiveStatus bool     `json:"require_active_status"`
	ExcludeCriticalRisk bool     `json:"exclude_critical_risk"`
}

// RulesForPeriod returns the default rule set for a period type.
func RulesForPeriod(pt PeriodType) EligibilityRules {
	cap := func(v float64) *float64 { return &v }
	switch pt {
	case PeriodWeek:
		return EligibilityRules{MinShiftsWorked: 3, RequireActiveStatus: true, ExcludeCriticalRisk: true}
	case PeriodQuarter:
		return EligibilityRules{MinShiftsWorked: 30, MaxAbsenceRate: cap(0.15), RequireActiveStatus: true, ExcludeCriticalRisk: true}
	case PeriodYear:
		return EligibilityRules{MinShiftsWorked: 120, MaxAbsenceRate: cap(0.15), RequireActiveStatus: true, ExcludeCriticalRisk: true}
	default: // MONTH
		return EligibilityRules{MinShiftsWorked: 10, MaxAbsenceRate: cap(0.20), RequireActiveStatus: true, ExcludeCriticalRisk: true}
	}
}

// Evaluate returns ("", true) when the entry passes, or the failure reason.
func (r EligibilityRules) Evaluate(e RankedStaff) (string, bool) {
	if r.ExcludeCriticalRisk && e.IsCriticalRisk {
		return "excluded: critical risk flag in period", false
	}
	if r.RequireActiveStatus && !e.Active {
		return "excluded: employee is not active", false
	}
	if e.Reliability.ShiftsWorked < r.MinShiftsWorked {
		return fmt.Sprintf("worked %d shifts, minimum is %d", e.Reliability.ShiftsWorked, r.MinShiftsWorked), false
	}
	if r.MaxAbsenceRate != nil {
		if rate := e.Reliability.AbsenceRate(); rate > *r.MaxAbsenceRate {
			return fmt.Sprintf("absence rate %.0f%% exceeds cap %.0f%%", rate*100, *r.MaxAbsenceRate*100), false
		}
	}
	return "", true
}

// ApplyEligibility marks every entry in place and returns the eligible
// subset re-ranked densely 1..M. The input keeps its full-set ranks; the
// returned slice is an independent copy.
func ApplyEligibility(entries []RankedStaff, rules EligibilityRules) []RankedStaff {
	eligible := make([]RankedStaff, 0, len(entries))
	for i := range entries {
		reason, ok := rules.Evaluate(entries[i])
		entries[i].IsEligible = ok
		entries[i].EligibilityReason = reason
		if ok {
			eligible = append(eligible, entries[i])
		}
	}
	AssignRanks(eligible)
	return eligible
}
