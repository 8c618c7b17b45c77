// Package service provides the schedule service implementation
package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"dutybot/internal/core/obligation"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/logger"
	"dutybot/internal/platform/store"

	perr "dutybot/internal/platform/errors"
	dom "dutybot/internal/services/schedule/domain"
)

// Service implements domain.PatternsPort and domain.ResolverPort
// One mutex guards the pattern map and its write-through persistence, so a
// reader never observes a half-written pattern.
type Service struct {
	docs store.Documents
	log  logger.Logger

	mu       sync.RWMutex
	patterns map[string]obligation.Pattern
}

// New constructs the service and loads the schedule document
// A missing document means no overrides; malformed entries are dropped.
func New(ctx context.Context, docs store.Documents, log logger.Logger) *Service {
	s := &Service{
		docs:     docs,
		log:      log,
		patterns: map[string]obligation.Pattern{},
	}

	var raw map[string]json.RawMessage
	err := docs.Load(ctx, dom.DocName, &raw)
	switch {
	case err == nil:
		for handle, rawDays := range raw {
			if handle == "" {
				continue
			}
			var days []int
			if err := json.Unmarshal(rawDays, &days); err != nil {
				log.Warn().Str("handle", handle).Msg("dropping wrong-shaped schedule entry")
				continue
			}
			s.patterns[handle] = obligation.NewPattern(days...)
		}
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		// first run
	default:
		log.Error().Err(err).Msg("schedule document unreadable, starting empty")
	}
	return s
}

// Pattern implements domain.PatternsPort
func (s *Service) Pattern(handle string) obligation.Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patterns[handle]
}

// Overrides implements domain.PatternsPort
func (s *Service) Overrides() dom.PatternDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SetPattern implements domain.PatternsPort
// The full document is rewritten before returning. A persistence failure is
// logged and surfaced, but the in-memory pattern stays applied: memory is
// authoritative for the rest of the process lifetime.
func (s *Service) SetPattern(ctx context.Context, handle string, days []int) error {
	if handle == "" {
		return perr.InvalidArgf("empty handle")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patterns[handle] = obligation.NewPattern(days...)

	if err := s.docs.Save(ctx, dom.DocName, s.snapshotLocked()); err != nil {
		s.log.Error().Err(err).Str("handle", handle).Msg("schedule persist failed")
		return err
	}
	return nil
}

// Resolve implements domain.ResolverPort
func (s *Service) Resolve(handle string, date civil.Date) obligation.Level {
	s.mu.RLock()
	p, ok := s.patterns[handle]
	s.mu.RUnlock()
	if !ok {
		return obligation.Resolve(nil, date)
	}
	return obligation.Resolve(p, date)
}

func (s *Service) snapshotLocked() dom.PatternDoc {
	doc := make(dom.PatternDoc, len(s.patterns))
	for handle, p := range s.patterns {
		days := p.Days()
		sort.Ints(days)
		doc[handle] = days
	}
	return doc
}
