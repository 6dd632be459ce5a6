// Package period computes budget period boundaries in a fixed UTC+7
// civil calendar, independent of the host timezone.
package period

import (
	"time"

	"github.com/spendguard/spendguard/internal/model"
)

// Location is the fixed civil calendar all periods are computed in.
var Location = time.FixedZone("UTC+7", 7*60*60)

// Range is an inclusive [Start, End] budget period.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range (inclusive).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Calculator derives period boundaries. The clock is injected so tests
// can pin "today" for the past-period correction.
type Calculator struct {
	now func() time.Time
}

// NewCalculator returns a Calculator using the given clock, or the system
// clock when now is nil.
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Monthly returns the period covering the given month: day 1 00:00:00
// through the last day 23:59:59.
func (c *Calculator) Monthly(year int, month time.Month) Range {
	r := monthRange(year, month)
	if c.isPast(r) {
		now := c.now().In(Location)
		return monthRange(now.Year(), now.Month())
	}
	return r
}

// Yearly returns Jan 1 00:00:00 through Dec 31 23:59:59 of the given year.
func (c *Calculator) Yearly(year int) Range {
	r := Range{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, Location),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, Location),
	}
	if c.isPast(r) {
		now := c.now().In(Location)
		return Range{
			Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, Location),
			End:   time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, Location),
		}
	}
	return r
}

// Weekly returns the ISO week containing ref: Monday 00:00:00 through the
// following Sunday 23:59:59.
func (c *Calculator) Weekly(ref time.Time) Range {
	r := weekRange(ref)
	if c.isPast(r) {
		return weekRange(c.now())
	}
	return r
}

// ForType resolves a period for the given type using ref as the anchor.
// Unrecognized types fall back to the current month.
func (c *Calculator) ForType(pt model.PeriodType, ref time.Time) Range {
	ref = ref.In(Location)
	switch pt {
	case model.PeriodWeekly:
		return c.Weekly(ref)
	case model.PeriodMonthly:
		return c.Monthly(ref.Year(), ref.Month())
	case model.PeriodYearly:
		return c.Yearly(ref.Year())
	default:
		now := c.now().In(Location)
		return c.Monthly(now.Year(), now.Month())
	}
}

// isPast reports whether the range ended before the start of "today".
func (c *Calculator) isPast(r Range) bool {
	now := c.now().In(Location)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, Location)
	return r.End.Before(todayStart)
}

func monthRange(year int, month time.Month) Range {
	start := time.Date(year, month, 1, 0, 0, 0, 0, Location)
	// Day 0 of the next month is the last day of this one.
	end := time.Date(year, month+1, 0, 23, 59, 59, 0, Location)
	return Range{Start: start, End: end}
}

func weekRange(ref time.Time) Range {
	ref = ref.In(Location)
	// ISO weekday: Monday=1 .. Sunday=7.
	wd := int(ref.Weekday())
	if wd == 0 {
		wd = 7
	}
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, Location).
		AddDate(0, 0, -(wd - 1))
	end := start.AddDate(0, 0, 6)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, Location)
	return Range{Start: start, End: end}
}
