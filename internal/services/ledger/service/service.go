// Package service provides the submission ledger implementation
package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"dutybot/internal/core/classify"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/logger"
	"dutybot/internal/platform/store"

	perr "dutybot/internal/platform/errors"
	dom "dutybot/internal/services/ledger/domain"
)

// Service implements the ledger ports over one in-memory document with
// write-through persistence. Every mutation rewrites the whole document, so
// a crash loses at most the mutation that failed to save.
type Service struct {
	docs store.Documents
	log  logger.Logger

	mu  sync.Mutex
	doc dom.Doc

	now func() time.Time
}

// New constructs the service and loads the ledger document
// A missing document means a fresh ledger. Malformed cells are repaired by
// deletion, level by level, so one wrong-shaped value never discards the
// rest of the document.
func New(ctx context.Context, docs store.Documents, log logger.Logger) *Service {
	s := &Service{docs: docs, log: log, doc: dom.Doc{}, now: time.Now}

	var raw map[string]json.RawMessage
	err := docs.Load(ctx, dom.DocName, &raw)
	switch {
	case err == nil:
		s.doc = coerce(raw, log)
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		// first run
	default:
		log.Error().Err(err).Msg("ledger document unreadable, starting empty")
	}
	return s
}

// coerce decodes each level independently, dropping cells that fail to
// decode or carry empty keys, and keeping everything else
func coerce(in map[string]json.RawMessage, log logger.Logger) dom.Doc {
	out := dom.Doc{}
	for day, rawCats := range in {
		if day == "" {
			continue
		}
		var cats map[string]json.RawMessage
		if err := json.Unmarshal(rawCats, &cats); err != nil {
			log.Warn().Str("date", day).Msg("dropping wrong-shaped ledger day")
			continue
		}
		keep := map[string]map[string]dom.Submission{}
		for cat, rawPeople := range cats {
			if !classify.Valid(classify.Category(cat)) {
				continue
			}
			var people map[string]json.RawMessage
			if err := json.Unmarshal(rawPeople, &people); err != nil {
				log.Warn().Str("date", day).Str("category", cat).
					Msg("dropping wrong-shaped ledger category")
				continue
			}
			kept := map[string]dom.Submission{}
			for handle, rawSub := range people {
				if handle == "" {
					continue
				}
				var sub dom.Submission
				if err := json.Unmarshal(rawSub, &sub); err != nil {
					log.Warn().Str("date", day).Str("category", cat).Str("handle", handle).
						Msg("dropping wrong-shaped ledger entry")
					continue
				}
				kept[handle] = sub
			}
			if len(kept) > 0 {
				keep[cat] = kept
			}
		}
		if len(keep) > 0 {
			out[day] = keep
		}
	}
	return out
}

// Record implements domain.RecorderPort
func (s *Service) Record(ctx context.Context, date civil.Date, cat classify.Category, handle, payload string) error {
	if handle == "" {
		return perr.InvalidArgf("empty handle")
	}
	if !classify.Valid(cat) {
		return perr.InvalidArgf("unknown category %q", cat)
	}
	if !classify.KeepsPayload(cat) {
		payload = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := date.String()
	cats, ok := s.doc[day]
	if !ok {
		cats = map[string]map[string]dom.Submission{}
		s.doc[day] = cats
	}
	people, ok := cats[string(cat)]
	if !ok {
		people = map[string]dom.Submission{}
		cats[string(cat)] = people
	}
	if prev, seen := people[handle]; seen && prev.Payload == payload {
		// idempotent re-record, the original timestamp stands
		return nil
	}
	people[handle] = dom.Submission{Payload: payload, At: s.now().UTC()}

	if err := s.docs.Save(ctx, dom.DocName, s.doc); err != nil {
		s.log.Error().Err(err).
			Str("date", day).
			Str("category", string(cat)).
			Str("handle", handle).
			Msg("ledger persist failed")
		return err
	}
	return nil
}

// HasSubmitted implements domain.ReaderPort
func (s *Service) HasSubmitted(date civil.Date, cat classify.Category, handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.doc[date.String()][string(cat)][handle]
	return ok
}

// SubmittedSet implements domain.ReaderPort
func (s *Service) SubmittedSet(date civil.Date, cat classify.Category) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	people := s.doc[date.String()][string(cat)]
	out := make(map[string]struct{}, len(people))
	for handle := range people {
		out[handle] = struct{}{}
	}
	return out
}

// Payload implements domain.ReaderPort
func (s *Service) Payload(date civil.Date, cat classify.Category, handle string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.doc[date.String()][string(cat)][handle]
	return sub.Payload, ok
}

// Entries implements domain.ReaderPort
func (s *Service) Entries(date civil.Date, cat classify.Category) []dom.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entriesLocked(s.doc[date.String()][string(cat)])
}

// Day implements domain.ReaderPort
func (s *Service) Day(date civil.Date) map[classify.Category][]dom.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[classify.Category][]dom.Entry{}
	for cat, people := range s.doc[date.String()] {
		out[classify.Category(cat)] = entriesLocked(people)
	}
	return out
}

func entriesLocked(people map[string]dom.Submission) []dom.Entry {
	out := make([]dom.Entry, 0, len(people))
	for handle, sub := range people {
		out = append(out, dom.Entry{Handle: handle, Payload: sub.Payload, At: sub.At})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Prune implements domain.PrunerPort
// Date keys older than today-window go; so do keys that do not parse
func (s *Service) Prune(ctx context.Context, today civil.Date, window int) (int, error) {
	if window < 0 {
		return 0, perr.InvalidArgf("negative retention window %d", window)
	}
	cutoff := today.AddDays(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for day := range s.doc {
		d, err := civil.ParseDate(day)
		if err != nil {
			s.log.Warn().Str("date", day).Msg("dropping unparseable ledger key")
			delete(s.doc, day)
			removed++
			continue
		}
		if d.Before(cutoff) {
			delete(s.doc, day)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.docs.Save(ctx, dom.DocName, s.doc); err != nil {
		s.log.Error().Err(err).Int("removed", removed).Msg("ledger prune persist failed")
		return removed, err
	}
	return removed, nil
}
