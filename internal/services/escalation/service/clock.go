package service

import (
	"context"
	"time"

	dom "dutybot/internal/services/escalation/domain"
)

// Run drives the trigger table until ctx is cancelled. Fires are sequential
// on this goroutine, so shutdown waits for an in-flight fire to finish.
// A fire time that passed while the process was down or busy is skipped
func (s *Service) Run(ctx context.Context) {
	s.log.Info().
		Int("triggers", len(s.triggers)).
		Str("tz", s.tz.String()).
		Msg("scheduler started")

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		now := time.Now().In(s.tz)
		at, due := s.nextBatch(now)
		timer.Reset(at.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("scheduler stopped")
			return
		case <-timer.C:
		}

		for _, tr := range due {
			if err := s.Fire(ctx, tr, time.Now()); err != nil {
				s.log.Error().Err(err).Str("trigger", tr.Name).Msg("fire failed")
			}
		}
	}
}

// nextBatch returns the earliest upcoming fire instant and every trigger
// that fires at it
func (s *Service) nextBatch(now time.Time) (time.Time, []dom.Trigger) {
	var at time.Time
	var due []dom.Trigger
	for _, tr := range s.triggers {
		next := s.NextFire(tr, now)
		switch {
		case at.IsZero() || next.Before(at):
			at = next
			due = append(due[:0], tr)
		case next.Equal(at):
			due = append(due, tr)
		}
	}
	return at, due
}
