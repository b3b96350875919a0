package perf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/performance-engine/perf"
)

// =============================================================================
// PERIOD RESOLUTION TESTS
// =============================================================================

func TestResolvePeriod_Week_StartsMonday(t *testing.T) {
	// GIVEN: A Wednesday reference date
	// WHEN: Resolving a WEEK period
	// THEN: The period spans Monday 00:00 to Sunday 23:59:59

	wednesday := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)
	p := perf.ResolvePeriod(perf.PeriodWeek, wednesday)

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, time.March, 16, 23, 59, 59, 0, time.UTC), p.End)
	assert.Equal(t, "Week 11, 2025", p.Label)
}

func TestResolvePeriod_Week_SundayBelongsToPrecedingMonday(t *testing.T) {
	// GIVEN: A Sunday reference date
	// WHEN: Resolving a WEEK period
	// THEN: The week starts on the Monday six days earlier, not the next day

	sunday := time.Date(2025, time.March, 16, 10, 0, 0, 0, time.UTC)
	p := perf.ResolvePeriod(perf.PeriodWeek, sunday)

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), p.Start)
}

func TestResolvePeriod_Month(t *testing.T) {
	ref := time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)
	p := perf.ResolvePeriod(perf.PeriodMonth, ref)

	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC), p.End)
	assert.Equal(t, "February 2025", p.Label)
}

func TestResolvePeriod_Month_LeapFebruary(t *testing.T) {
	ref := time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)
	p := perf.ResolvePeriod(perf.PeriodMonth, ref)

	assert.Equal(t, 29, p.End.Day())
}

func TestResolvePeriod_Quarter(t *testing.T) {
	ref := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	p := perf.ResolvePeriod(perf.PeriodQuarter, ref)

	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC), p.End)
	assert.Equal(t, "Q2 2025", p.Label)
}

func TestResolvePeriod_Year(t *testing.T) {
	ref := time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)
	p := perf.ResolvePeriod(perf.PeriodYear, ref)

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC), p.End)
	assert.Equal(t, "2025", p.Label)
}

func TestResolvePeriod_UnknownType_DefaultsToMonth(t *testing.T) {
	ref := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	p := perf.ResolvePeriod(perf.PeriodType("FORTNIGHT"), ref)

	assert.Equal(t, perf.PeriodMonth, p.Type)
	assert.Equal(t, "June 2025", p.Label)
}

func TestPeriod_Contains_InclusiveBounds(t *testing.T) {
	p := perf.ResolvePeriod(perf.PeriodMonth, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))

	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.End.Add(time.Second)))
	assert.False(t, p.Contains(p.Start.Add(-time.Second)))
}

func TestParsePeriodType(t *testing.T) {
	for _, valid := range []string{"WEEK", "MONTH", "QUARTER", "YEAR"} {
		pt, ok := perf.ParsePeriodType(valid)
		assert.True(t, ok)
		assert.Equal(t, perf.PeriodType(valid), pt)
	}

	// Case-sensitive: lowercase is rejected
	_, ok := perf.ParsePeriodType("month")
	assert.False(t, ok)
}

// =============================================================================
// WINDOW TESTS
// =============================================================================

func TestWindow_Validate(t *testing.T) {
	now := time.Now().UTC()

	assert.ErrorIs(t, perf.Window{}.Validate(), perf.ErrUnresolvedWindow)
	assert.ErrorIs(t, perf.Window{From: now}.Validate(), perf.ErrUnresolvedWindow)
	assert.ErrorIs(t, perf.Window{From: now, To: now.Add(-time.Hour)}.Validate(), perf.ErrInvalidWindow)
	assert.NoError(t, perf.Window{From: now, To: now}.Validate())
}

func TestDayWindow_CoversFullDay(t *testing.T) {
	w := perf.DayWindow(time.Date(2025, time.March, 10, 14, 22, 3, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC), w.To)
}

func TestRangeWindow_InclusiveOfBothDays(t *testing.T) {
	w := perf.RangeWindow(
		time.Date(2025, time.March, 9, 8, 15, 0, 0, time.UTC),
		time.Date(2025, time.March, 11, 8, 15, 0, 0, time.UTC),
	)

	assert.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, time.Date(2025, time.March, 11, 23, 59, 59, 0, time.UTC), w.To)
	assert.NoError(t, w.Validate())
}
