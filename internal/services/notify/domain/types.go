// Package domain holds notification types and ports
package domain

import "strings"

// Audience names a destination chat
type Audience string

const (
	// AudienceMain is the working group chat
	AudienceMain Audience = "main"
	// AudienceAdmin is the escalation chat
	AudienceAdmin Audience = "admin"
	// AudienceSupervisor is the digest recipient
	AudienceSupervisor Audience = "supervisor"
)

// Valid reports whether a is a known audience
func Valid(a Audience) bool {
	switch a {
	case AudienceMain, AudienceAdmin, AudienceSupervisor:
		return true
	}
	return false
}

// DigestEntry is one submitter line in a digest
type DigestEntry struct {
	Name    string
	Payload string
}

// Digest is a supervisor summary for one category and date
type Digest struct {
	Title   string
	Entries []DigestEntry
	Missing []string // display names
}

// Render produces the digest message body: title, then each submitter with
// their payload, then the missing line when someone is missing
func (d Digest) Render() string {
	var b strings.Builder
	b.WriteString(d.Title)
	for _, e := range d.Entries {
		b.WriteString("\n\n")
		b.WriteString(e.Name)
		if e.Payload != "" {
			b.WriteString(":\n")
			b.WriteString(e.Payload)
		}
	}
	if len(d.Missing) > 0 {
		b.WriteString("\n\nНе сдали: ")
		b.WriteString(strings.Join(d.Missing, ", "))
	} else if len(d.Entries) > 0 {
		b.WriteString("\n\nВсе сдали.")
	}
	return b.String()
}
