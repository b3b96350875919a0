package perf

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - The time boundary every computation runs over
// =============================================================================

// PeriodType defines how a reference date maps to a period boundary.
type PeriodType string

const (
	PeriodWeek    PeriodType = "WEEK"    // ISO week, Monday-Sunday
	PeriodMonth   PeriodType = "MONTH"   // Calendar month
	PeriodQuarter PeriodType = "QUARTER" // Calendar quarter
	PeriodYear    PeriodType = "YEAR"    // Calendar year
)

// ParsePeriodType converts a string to a PeriodType, case-sensitively.
func ParsePeriodType(s string) (PeriodType, bool) {
	switch PeriodType(s) {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return PeriodType(s), true
	}
	return "", false
}

// Period is an immutable, resolved [Start, End] window with a display label.
// Start is the first instant of the period, End the last day at 23:59:59 UTC,
// so the window is inclusive on both sides.
type Period struct {
	Type  PeriodType
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether t falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s [%s, %s]", p.Label, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// =============================================================================
// PERIOD RESOLVER - Pure calendar math, no side effects, no errors
// =============================================================================

// ResolvePeriod maps a period type and a reference date to its canonical
// calendar boundary and human label:
//
//	WEEK    -> ISO week containing ref    "Week 12, 2025"
//	MONTH   -> calendar month             "March 2026"
//	QUARTER -> calendar quarter           "Q1 2026"
//	YEAR    -> calendar year              "2026"
//
// Unknown types resolve as MONTH.
func ResolvePeriod(pt PeriodType, ref time.Time) Period {
	ref = ref.UTC()

	switch pt {
	case PeriodWeek:
		start := startOfISOWeek(ref)
		year, week := start.ISOWeek()
		return Period{
			Type:  PeriodWeek,
			Start: start,
			End:   endOfDay(start.AddDate(0, 0, 6)),
			Label: fmt.Sprintf("Week %d, %d", week, year),
		}

	case PeriodQuarter:
		q := (int(ref.Month())-1)/3 + 1
		start := time.Date(ref.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Type:  PeriodQuarter,
			Start: start,
			End:   endOfDay(start.AddDate(0, 3, -1)),
			Label: fmt.Sprintf("Q%d %d", q, ref.Year()),
		}

	case PeriodYear:
		start := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Type:  PeriodYear,
			Start: start,
			End:   endOfDay(time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)),
			Label: fmt.Sprintf("%d", ref.Year()),
		}

	default: // PeriodMonth
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Type:  PeriodMonth,
			Start: start,
			End:   endOfDay(start.AddDate(0, 1, -1)),
			Label: fmt.Sprintf("%s %d", ref.Month(), ref.Year()),
		}
	}
}

// startOfISOWeek returns the Monday 00:00 UTC of the ISO week containing t.
func startOfISOWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
