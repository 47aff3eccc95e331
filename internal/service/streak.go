package service

import (
	"fmt"
	"slices"
	"time"
)

// SameDayPolicy decides how several events on one calendar day count.
type SameDayPolicy string

const (
	// SameDayDedupe counts a day once no matter how many events it has.
	SameDayDedupe SameDayPolicy = "dedupe"
	// SameDayInflate counts every event, so repeats lengthen the streak.
	SameDayInflate SameDayPolicy = "inflate"
)

type StreakCalculator struct {
	policy SameDayPolicy
	loc    *time.Location
}

func NewStreakCalculator(policy SameDayPolicy, loc *time.Location) (*StreakCalculator, error) {
	if policy == "" {
		policy = SameDayDedupe
	}
	if policy != SameDayDedupe && policy != SameDayInflate {
		return nil, &ValidationError{Field: "streak.sameDayPolicy", Reason: fmt.Sprintf("unknown policy %q", policy)}
	}
	if loc == nil {
		loc = time.UTC
	}

	return &StreakCalculator{
		policy: policy,
		loc:    loc,
	}, nil
}

// Calculate returns the number of consecutive calendar days, counted back
// from the most recent event, that have at least one event.
func (c *StreakCalculator) Calculate(events []time.Time) int {
	if len(events) == 0 {
		return 0
	}

	sorted := slices.Clone(events)
	slices.SortFunc(sorted, func(a, b time.Time) int { return b.Compare(a) })

	streak := 0
	var lastDate time.Time
	for _, e := range sorted {
		day := c.day(e)
		if lastDate.IsZero() {
			streak = 1
			lastDate = day
			continue
		}

		switch dayDiff := daysBetween(day, lastDate); {
		case dayDiff == 0:
			if c.policy == SameDayInflate {
				streak++
			}
		case dayDiff == 1:
			streak++
			lastDate = day
		default:
			return streak
		}
	}

	return streak
}

// WindowStart is the first instant of the lookback window that can hold
// a streak of the given length ending on now's calendar day.
func (c *StreakCalculator) WindowStart(now time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	y, m, d := now.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc).AddDate(0, 0, -(days - 1))
}

// day maps t onto a UTC midnight of its calendar date in c.loc so day
// differences are unaffected by DST.
func (c *StreakCalculator) day(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
