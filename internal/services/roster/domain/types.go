// Package domain defines the types and interfaces for the roster service
package domain

// Person is one tracked member of the roster
type Person struct {
	// Handle is the stable messaging identifier without the @ prefix
	Handle string
	// DisplayName is the human name used in digests
	DisplayName string
}

// Mention renders the @handle token used in reminder messages
func (p Person) Mention() string { return "@" + p.Handle }
