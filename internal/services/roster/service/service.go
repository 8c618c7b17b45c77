// Package service provides the config-backed roster implementation
package service

import (
	"sort"
	"strings"

	dom "dutybot/internal/services/roster/domain"
)

// Config for the roster service
type Config struct {
	// People holds "handle:Display Name" entries
	People []string
	// Solo is the handle with its own slice escalation track
	Solo string
}

// Service implements domain.ReaderPort over static configuration
// The roster changes by redeploy, not at runtime, so there is no store.
type Service struct {
	byHandle map[string]dom.Person
	ordered  []dom.Person
	solo     string
}

// New constructs a roster from config, skipping malformed entries
func New(cfg Config) *Service {
	s := &Service{byHandle: make(map[string]dom.Person, len(cfg.People))}
	for _, raw := range cfg.People {
		handle, name, found := strings.Cut(raw, ":")
		handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
		if handle == "" {
			continue
		}
		if !found || strings.TrimSpace(name) == "" {
			name = handle
		}
		s.byHandle[handle] = dom.Person{Handle: handle, DisplayName: strings.TrimSpace(name)}
	}
	s.ordered = make([]dom.Person, 0, len(s.byHandle))
	for _, p := range s.byHandle {
		s.ordered = append(s.ordered, p)
	}
	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].Handle < s.ordered[j].Handle })

	solo := strings.TrimPrefix(strings.TrimSpace(cfg.Solo), "@")
	if _, ok := s.byHandle[solo]; ok {
		s.solo = solo
	}
	return s
}

// AllPersons implements domain.ReaderPort
func (s *Service) AllPersons() []dom.Person {
	out := make([]dom.Person, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// DisplayName implements domain.ReaderPort
func (s *Service) DisplayName(handle string) string {
	if p, ok := s.byHandle[handle]; ok {
		return p.DisplayName
	}
	return handle
}

// Lookup implements domain.ReaderPort
func (s *Service) Lookup(handle string) (dom.Person, bool) {
	p, ok := s.byHandle[handle]
	return p, ok
}

// SoloHandle implements domain.ReaderPort
func (s *Service) SoloHandle() string { return s.solo }
