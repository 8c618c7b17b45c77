// Package civil provides timezone-aware calendar types for the trigger
// schedule and the ledger's date keys
package civil

import (
	"fmt"
	"time"
)

// DateLayout is the canonical ledger key layout
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD key
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("bad date key %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String renders the canonical YYYY-MM-DD form
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// In returns midnight of d in loc
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n calendar days (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Weekday returns the day-of-week index with 0=Monday .. 6=Sunday
func (d Date) Weekday() int {
	wd := d.In(time.UTC).Weekday() // 0=Sunday in time pkg
	return (int(wd) + 6) % 7
}

// IsWeekend reports whether d falls on Saturday or Sunday
func (d Date) IsWeekend() bool { return d.Weekday() >= 5 }

// TimeOfDay is a wall-clock trigger time
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" with validation
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("bad time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("bad time of day %q: out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// String renders HH:MM
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// On anchors the wall-clock time to a calendar date in loc
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, loc)
}

// Next returns the next occurrence of t strictly after now, in now's location
// A fire time already passed today rolls to tomorrow; there is no catch-up.
func (t TimeOfDay) Next(now time.Time) time.Time {
	today := t.On(DateOf(now), now.Location())
	if today.After(now) {
		return today
	}
	return t.On(DateOf(now).AddDays(1), now.Location())
}
