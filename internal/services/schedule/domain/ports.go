package domain

import (
	"context"

	"dutybot/internal/core/obligation"
	"dutybot/internal/platform/civil"
)

// PatternsPort reads and mutates override work patterns
type PatternsPort interface {
	// Pattern returns the override for handle, or nil when the default applies
	Pattern(handle string) obligation.Pattern
	// Overrides returns a copy of all stored overrides
	Overrides() PatternDoc
	// SetPattern replaces the override for handle and persists synchronously
	SetPattern(ctx context.Context, handle string, days []int) error
}

// ResolverPort derives obligation levels from stored patterns
type ResolverPort interface {
	// Resolve returns the obligation level for handle on date
	Resolve(handle string, date civil.Date) obligation.Level
}
