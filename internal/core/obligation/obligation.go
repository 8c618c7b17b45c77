// Package obligation derives what a person owes on a given calendar date
// from their weekly work pattern. Pure computation, no side effects.
package obligation

import (
	"dutybot/internal/platform/civil"
)

// Level is the derived obligation for one person on one date
type Level int

const (
	// None means the person owes nothing that day
	None Level = iota
	// ReportOnly means the person owes a report but no conclusion or slice
	ReportOnly
	// Full means the person owes report, conclusion, and slice
	Full
)

// String renders the level for logs
func (l Level) String() string {
	switch l {
	case ReportOnly:
		return "report_only"
	case Full:
		return "full"
	default:
		return "none"
	}
}

// Pattern is an explicit weekly work-day set, indices 0=Monday..6=Sunday
// Indices not present mean "not scheduled". An empty pattern is a legitimate
// "currently inactive" state, not an error.
type Pattern map[int]struct{}

// NewPattern builds a Pattern from weekday indices, ignoring out-of-range values
func NewPattern(days ...int) Pattern {
	p := make(Pattern, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			p[d] = struct{}{}
		}
	}
	return p
}

// Days returns the sorted member indices
func (p Pattern) Days() []int {
	out := make([]int, 0, len(p))
	for d := 0; d <= 6; d++ {
		if _, ok := p[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Resolve derives the obligation level for a date
// pattern == nil means the default Mon-Fri cohort; a non-nil pattern is an
// explicit override, where scheduled weekend days owe a report only.
func Resolve(pattern Pattern, date civil.Date) Level {
	wd := date.Weekday()
	if pattern == nil {
		if wd < 5 {
			return Full
		}
		return None
	}
	if _, ok := pattern[wd]; !ok {
		return None
	}
	if wd < 5 {
		return Full
	}
	return ReportOnly
}

// OwesReport reports whether the level includes the daily report
func OwesReport(l Level) bool { return l == Full || l == ReportOnly }

// OwesFull reports whether the level includes conclusions and slices
func OwesFull(l Level) bool { return l == Full }
