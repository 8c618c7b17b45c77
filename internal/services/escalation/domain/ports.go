package domain

import (
	"context"
	"time"
)

// SchedulerPort drives trigger evaluation
type SchedulerPort interface {
	// Triggers returns the active trigger table, sorted by fire time
	Triggers() []Trigger
	// Lookup returns the trigger with the given name
	Lookup(name string) (Trigger, bool)
	// Fire evaluates one trigger as of now: resolves the cohort, computes the
	// missing set and delivers the rendered message. Replay safe
	Fire(ctx context.Context, tr Trigger, now time.Time) error
	// NextFire returns when tr next fires at or after now
	NextFire(tr Trigger, now time.Time) time.Time
}
