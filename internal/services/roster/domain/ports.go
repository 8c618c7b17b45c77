package domain

// ReaderPort exposes the roster to the scheduler and digest rendering
type ReaderPort interface {
	// AllPersons returns every tracked person, stable order by handle
	AllPersons() []Person
	// DisplayName returns the human name for a handle, falling back to the handle
	DisplayName(handle string) string
	// Lookup returns the person for a handle
	Lookup(handle string) (Person, bool)
	// SoloHandle returns the designated individual with a separate slice
	// escalation track, or empty when not configured
	SoloHandle() string
}
