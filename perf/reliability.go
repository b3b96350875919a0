/*
reliability.go - Reliability Calculator

PURPOSE:
  Aggregates attendance records against scheduled duty shifts into a
  per-employee reliability score for a window.

FORMULA:
  attendanceRate   = shiftsWorked / shiftsScheduled   (0 when none scheduled)
  reliabilityScore = attendanceRate * 0.5
                   - (lateCount / shiftsWorked)      * 0.20
                   - (leftEarlyCount / shiftsWorked) * 0.15
                   + min(coverShifts / shiftsWorked, 1.0) * 0.10
                   - (1 - attendanceRate)            * 0.05
  clamped to [0,1]. shiftsWorked=0 short-circuits to 0.

DEFAULTS:
  Every active employee receives a record, even with no attendance data in
  the window - absence from the dataset yields a zero-valued record, not an
  omission.
*/
package perf

import (
	"context"
	"sort"
)

// Reliability formula weights.
const (
	attendanceWeight = 0.50
	latePenalty      = 0.20
	leftEarlyPenalty = 0.15
	coverBonus       = 0.10
	absencePenalty   = 0.05
)

// ReliabilityCalculator turns attendance and schedule data into scores.
type ReliabilityCalculator struct {
	Attendance AttendanceSource
	Shifts     ShiftSource
	Directory  EmployeeDirectory
}

// Calculate returns one ReliabilityMetric per active employee in scope,
// sorted by employee id.
func (rc *ReliabilityCalculator) Calculate(ctx context.Context, scope Scope, w Window) ([]ReliabilityMetric, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	employees, err := rc.Directory.ActiveEmployees(ctx, scope)
	if err != nil {
		return nil, &SourceError{Source: "directory", Err: err}
	}
	attendance, err := rc.Attendance.AttendanceInWindow(ctx, scope, w.From, w.To)
	if err != nil {
		return nil, &SourceError{Source: "attendance", Err: err}
	}
	shifts, err := rc.Shifts.ShiftsInWindow(ctx, scope, w.From, w.To)
	if err != nil {
		return nil, &SourceError{Source: "shifts", Err: err}
	}

	return buildReliability(employees, attendance, shifts), nil
}

func buildReliability(employees []Employee, attendance []AttendanceRecord, shifts []DutyShift) []ReliabilityMetric {
	byEmployee := make(map[EmployeeID]*ReliabilityMetric, len(employees))
	for _, e := range employees {
		byEmployee[e.ID] = &ReliabilityMetric{EmployeeID: e.ID}
	}
	get := func(id EmployeeID) *ReliabilityMetric {
		m, ok := byEmployee[id]
		if !ok {
			// Attendance for someone no longer in the active roster still counts.
			m = &ReliabilityMetric{EmployeeID: id}
			byEmployee[id] = m
		}
		return m
	}

	for _, s := range shifts {
		get(s.EmployeeID).ShiftsScheduled++
	}

	for _, a := range attendance {
		m := get(a.EmployeeID)
		switch a.Status {
		case AttendanceAbsent:
			m.ShiftsAbsent++
		case AttendanceLate:
			m.ShiftsWorked++
			m.LateCount++
		case AttendanceLeftEarly:
			m.ShiftsWorked++
			m.LeftEarlyCount++
		case AttendancePresent:
			m.ShiftsWorked++
		}
		if a.CoverFor != "" {
			m.CoverShifts++
		}
	}

	metrics := make([]ReliabilityMetric, 0, len(byEmployee))
	for _, m := range byEmployee {
		score(m)
		metrics = append(metrics, *m)
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].EmployeeID < metrics[j].EmployeeID
	})
	return metrics
}

func score(m *ReliabilityMetric) {
	m.AttendanceRate = ratio(m.ShiftsWorked, m.ShiftsScheduled)

	// No shifts worked means no basis for a score - and no division by zero.
	if m.ShiftsWorked == 0 {
		m.ReliabilityScore = 0
		return
	}

	coverRate := ratio(m.CoverShifts, m.ShiftsWorked)
	if coverRate > 1 {
		coverRate = 1
	}

	s := m.AttendanceRate*attendanceWeight -
		ratio(m.LateCount, m.ShiftsWorked)*latePenalty -
		ratio(m.LeftEarlyCount, m.ShiftsWorked)*leftEarlyPenalty +
		coverRate*coverBonus -
		(1-m.AttendanceRate)*absencePenalty

	m.ReliabilityScore = clamp01(s)
}
