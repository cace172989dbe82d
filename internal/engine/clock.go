package engine

import (
	"math"
	"time"
)

// DayLayout is the calendar key format used for day comparisons.
const DayLayout = "2006-01-02"

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T. Tests advance it by assigning T.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// DayKey formats t as a calendar key in t's own location.
func DayKey(t time.Time) string { return t.Format(DayLayout) }

// DaysBetween counts whole calendar days from the day key from to t.
// An unparseable key yields 0.
func DaysBetween(from string, t time.Time) int {
	start, err := time.ParseInLocation(DayLayout, from, t.Location())
	if err != nil {
		return 0
	}
	end := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// previousDay returns the day key before key.
func previousDay(key string, loc *time.Location) string {
	t, err := time.ParseInLocation(DayLayout, key, loc)
	if err != nil {
		return ""
	}
	return DayKey(t.AddDate(0, 0, -1))
}
