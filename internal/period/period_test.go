package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendguard/spendguard/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, Location)
}

func TestMonthly(t *testing.T) {
	c := NewCalculator(fixedClock(date(2025, time.February, 15)))

	r := c.Monthly(2025, time.February)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, Location), r.Start)
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, 0, Location), r.End)
}

func TestMonthlyLeapYear(t *testing.T) {
	c := NewCalculator(fixedClock(date(2024, time.February, 10)))

	r := c.Monthly(2024, time.February)
	assert.Equal(t, 29, r.End.Day())
}

func TestMonthlyPastPeriodCorrection(t *testing.T) {
	c := NewCalculator(fixedClock(date(2025, time.June, 15)))

	// March 2024 ended long before "today"; the current month wins.
	r := c.Monthly(2024, time.March)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, Location), r.Start)
	assert.Equal(t, time.Date(2025, time.June, 30, 23, 59, 59, 0, Location), r.End)
}

func TestYearly(t *testing.T) {
	c := NewCalculator(fixedClock(date(2025, time.June, 15)))

	r := c.Yearly(2025)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, Location), r.Start)
	assert.Equal(t, time.Date(2025, time.December, 31, 23, 59, 59, 0, Location), r.End)

	past := c.Yearly(2020)
	assert.Equal(t, 2025, past.Start.Year(), "past year corrects to the current one")
}

func TestWeeklyMidweek(t *testing.T) {
	// Wednesday 2025-06-11.
	now := date(2025, time.June, 11)
	c := NewCalculator(fixedClock(now))

	r := c.Weekly(now)
	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, Location), r.Start, "week starts Monday")
	assert.Equal(t, time.Date(2025, time.June, 15, 23, 59, 59, 0, Location), r.End, "week ends Sunday")
}

func TestWeeklySundayIsDaySeven(t *testing.T) {
	// Sunday 2025-06-15 belongs to the week starting Monday 2025-06-09.
	now := date(2025, time.June, 15)
	c := NewCalculator(fixedClock(now))

	r := c.Weekly(now)
	assert.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, Location), r.Start)
}

func TestWeeklyPastPeriodCorrection(t *testing.T) {
	now := date(2025, time.June, 11)
	c := NewCalculator(fixedClock(now))

	r := c.Weekly(date(2025, time.January, 6))
	assert.True(t, r.Contains(now), "corrected week must contain now")
}

func TestForTypeFallbackToCurrentMonth(t *testing.T) {
	now := date(2025, time.June, 11)
	c := NewCalculator(fixedClock(now))

	r := c.ForType(model.PeriodType("quarterly"), date(2024, time.January, 1))
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, Location), r.Start)
	assert.Equal(t, time.Date(2025, time.June, 30, 23, 59, 59, 0, Location), r.End)
}

func TestPeriodEndNeverBeforeTodayStart(t *testing.T) {
	now := date(2025, time.June, 11)
	todayStart := time.Date(2025, time.June, 11, 0, 0, 0, 0, Location)
	c := NewCalculator(fixedClock(now))

	refs := []time.Time{
		date(2020, time.January, 1),
		date(2024, time.December, 31),
		date(2025, time.June, 11),
		date(2026, time.March, 1),
	}
	types := []model.PeriodType{model.PeriodWeekly, model.PeriodMonthly, model.PeriodYearly, "bogus"}

	for _, pt := range types {
		for _, ref := range refs {
			r := c.ForType(pt, ref)
			require.False(t, r.End.Before(todayStart),
				"type=%s ref=%s end=%s precedes today", pt, ref, r.End)
			require.False(t, r.End.Before(r.Start), "type=%s ref=%s inverted range", pt, ref)
		}
	}
}

func TestRangeContains(t *testing.T) {
	c := NewCalculator(fixedClock(date(2025, time.June, 11)))
	r := c.Monthly(2025, time.June)

	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(r.End))
	assert.False(t, r.Contains(r.Start.Add(-time.Second)))
	assert.False(t, r.Contains(r.End.Add(time.Second)))
}
