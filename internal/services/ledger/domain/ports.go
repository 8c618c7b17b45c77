package domain

import (
	"context"

	"dutybot/internal/core/classify"
	"dutybot/internal/platform/civil"
)

// RecorderPort is the write side of the submission ledger
type RecorderPort interface {
	// Record marks (date, cat, handle) as submitted. Re-recording is a no-op
	// for reports; for payload-keeping categories the payload is replaced
	Record(ctx context.Context, date civil.Date, cat classify.Category, handle, payload string) error
}

// ReaderPort is the query side of the submission ledger
type ReaderPort interface {
	// HasSubmitted reports whether handle submitted cat on date
	HasSubmitted(date civil.Date, cat classify.Category, handle string) bool
	// SubmittedSet returns the handles that submitted cat on date
	SubmittedSet(date civil.Date, cat classify.Category) map[string]struct{}
	// Payload returns the stored text for (date, cat, handle)
	Payload(date civil.Date, cat classify.Category, handle string) (string, bool)
	// Entries returns the recorded submissions for (date, cat), stable order
	// by handle
	Entries(date civil.Date, cat classify.Category) []Entry
	// Day returns every recorded submission for date keyed by category
	Day(date civil.Date) map[classify.Category][]Entry
}

// PrunerPort trims old ledger days
type PrunerPort interface {
	// Prune drops every date key older than today minus window days, plus any
	// date key that does not parse. Returns the number of keys removed
	Prune(ctx context.Context, today civil.Date, window int) (int, error)
}
