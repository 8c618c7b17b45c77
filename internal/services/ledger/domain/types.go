// Package domain holds ledger types and ports
package domain

import "time"

// DocName is the document key the ledger persists under
const DocName = "ledger"

// Submission is the persisted record for one (date, category, handle) cell.
// Report submissions carry an empty payload; conclusion and slice submissions
// keep the submitted text
type Submission struct {
	Payload string    `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// Doc is the persisted ledger shape: date key -> category -> handle
type Doc map[string]map[string]map[string]Submission

// Entry is one recorded submission with its handle attached
type Entry struct {
	Handle  string
	Payload string
	At      time.Time
}
