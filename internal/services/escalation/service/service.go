// Package service evaluates scheduled triggers against the ledger
package service

import (
	"context"
	"strings"
	"time"

	"dutybot/internal/core/classify"
	"dutybot/internal/core/obligation"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/logger"

	perr "dutybot/internal/platform/errors"
	dom "dutybot/internal/services/escalation/domain"
	ledgerdom "dutybot/internal/services/ledger/domain"
	notifydom "dutybot/internal/services/notify/domain"
	rosterdom "dutybot/internal/services/roster/domain"
	scheddom "dutybot/internal/services/schedule/domain"
)

// Service implements domain.SchedulerPort. It holds no mutable state: every
// Fire re-reads roster, schedule and ledger, so replays are safe
type Service struct {
	triggers []dom.Trigger
	byName   map[string]dom.Trigger
	tz       *time.Location

	roster   rosterdom.ReaderPort
	resolver scheddom.ResolverPort
	ledger   ledgerdom.ReaderPort
	router   notifydom.RouterPort
	log      logger.Logger
}

// Config wires the scheduler
type Config struct {
	Triggers []dom.Trigger
	TZ       *time.Location
}

// New constructs the scheduler. A nil trigger slice means the built-in table
func New(
	cfg Config,
	roster rosterdom.ReaderPort,
	resolver scheddom.ResolverPort,
	ledger ledgerdom.ReaderPort,
	router notifydom.RouterPort,
	log logger.Logger,
) *Service {
	triggers := cfg.Triggers
	if len(triggers) == 0 {
		triggers = dom.DefaultTriggers()
	}
	dom.SortTriggers(triggers)

	tz := cfg.TZ
	if tz == nil {
		tz = time.UTC
	}

	byName := make(map[string]dom.Trigger, len(triggers))
	for _, tr := range triggers {
		byName[tr.Name] = tr
	}
	return &Service{
		triggers: triggers,
		byName:   byName,
		tz:       tz,
		roster:   roster,
		resolver: resolver,
		ledger:   ledger,
		router:   router,
		log:      log,
	}
}

// Triggers implements domain.SchedulerPort
func (s *Service) Triggers() []dom.Trigger {
	out := make([]dom.Trigger, len(s.triggers))
	copy(out, s.triggers)
	return out
}

// Lookup implements domain.SchedulerPort
func (s *Service) Lookup(name string) (dom.Trigger, bool) {
	tr, ok := s.byName[name]
	return tr, ok
}

// NextFire implements domain.SchedulerPort
func (s *Service) NextFire(tr dom.Trigger, now time.Time) time.Time {
	return tr.At.Next(now.In(s.tz))
}

// Fire implements domain.SchedulerPort
func (s *Service) Fire(ctx context.Context, tr dom.Trigger, now time.Time) error {
	target := civil.DateOf(now.In(s.tz))
	if tr.Target == dom.TargetYesterday {
		target = target.AddDays(-1)
	}

	cohort, err := s.cohort(tr.Cohort)
	if err != nil {
		return err
	}
	required := s.required(cohort, tr.Category, target)
	submitted := s.ledger.SubmittedSet(target, tr.Category)

	var missing []rosterdom.Person
	for _, p := range required {
		if _, ok := submitted[p.Handle]; !ok {
			missing = append(missing, p)
		}
	}

	log := s.log.With().
		Str("trigger", tr.Name).
		Str("date", target.String()).
		Int("required", len(required)).
		Int("missing", len(missing)).
		Logger()

	if tr.Digest {
		if len(missing) == 0 && !tr.AlwaysSend {
			log.Debug().Msg("digest skipped, nothing missing")
			return nil
		}
		text := s.renderDigest(tr, target, missing)
		log.Info().Msg("digest fired")
		return s.router.Send(ctx, tr.Audience, text)
	}

	if len(missing) == 0 {
		log.Debug().Msg("trigger skipped, nothing missing")
		return nil
	}
	tokens := make([]string, len(missing))
	for i, p := range missing {
		tokens[i] = p.Mention()
	}
	text := renderTemplate(tr.Template, target, strings.Join(tokens, " "))
	log.Info().Msg("trigger fired")
	return s.router.Send(ctx, tr.Audience, text)
}

// cohort resolves the trigger cohort to roster members
func (s *Service) cohort(c dom.Cohort) ([]rosterdom.Person, error) {
	all := s.roster.AllPersons()
	solo := s.roster.SoloHandle()
	switch c {
	case dom.CohortAll:
		return all, nil
	case dom.CohortGroup:
		out := make([]rosterdom.Person, 0, len(all))
		for _, p := range all {
			if p.Handle != solo {
				out = append(out, p)
			}
		}
		return out, nil
	case dom.CohortSolo:
		if solo == "" {
			return nil, nil
		}
		if p, ok := s.roster.Lookup(solo); ok {
			return []rosterdom.Person{p}, nil
		}
		return nil, nil
	}
	return nil, perr.InvalidArgf("unknown cohort %q", c)
}

// required filters the cohort down to members whose obligation holds on date
func (s *Service) required(cohort []rosterdom.Person, cat classify.Category, date civil.Date) []rosterdom.Person {
	out := make([]rosterdom.Person, 0, len(cohort))
	for _, p := range cohort {
		level := s.resolver.Resolve(p.Handle, date)
		owes := obligation.OwesFull(level)
		if cat == classify.CategoryReport {
			owes = obligation.OwesReport(level)
		}
		if owes {
			out = append(out, p)
		}
	}
	return out
}

// renderDigest builds the supervisor digest body from ledger entries
func (s *Service) renderDigest(tr dom.Trigger, target civil.Date, missing []rosterdom.Person) string {
	entries := s.ledger.Entries(target, tr.Category)
	d := notifydom.Digest{
		Title:   renderTemplate(tr.Template, target, ""),
		Entries: make([]notifydom.DigestEntry, 0, len(entries)),
		Missing: make([]string, 0, len(missing)),
	}
	for _, e := range entries {
		d.Entries = append(d.Entries, notifydom.DigestEntry{
			Name:    s.roster.DisplayName(e.Handle),
			Payload: e.Payload,
		})
	}
	for _, p := range missing {
		d.Missing = append(d.Missing, s.roster.DisplayName(p.Handle))
	}
	return d.Render()
}

func renderTemplate(tmpl string, date civil.Date, mentions string) string {
	out := strings.ReplaceAll(tmpl, "{mentions}", mentions)
	out = strings.ReplaceAll(out, "{date}", date.String())
	return strings.TrimSpace(out)
}
