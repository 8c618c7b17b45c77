// Package service records classified chat messages into the ledger
package service

import (
	"context"
	"strings"
	"time"

	"dutybot/internal/core/classify"
	"dutybot/internal/platform/civil"
	"dutybot/internal/platform/logger"

	dom "dutybot/internal/services/ingest/domain"
	ledgerdom "dutybot/internal/services/ledger/domain"
)

// Config wires the ingestion handler
type Config struct {
	MainChatID int64
	TZ         *time.Location
}

// Service implements domain.HandlerPort
type Service struct {
	cfg      Config
	table    *classify.Table
	recorder ledgerdom.RecorderPort
	acker    dom.AckPort
	log      logger.Logger

	now func() time.Time
}

// New constructs the handler. A nil table means the default tag set;
// a nil acker disables reactions
func New(cfg Config, table *classify.Table, recorder ledgerdom.RecorderPort, acker dom.AckPort, log logger.Logger) *Service {
	if table == nil {
		table = classify.Default()
	}
	if cfg.TZ == nil {
		cfg.TZ = time.UTC
	}
	return &Service{
		cfg:      cfg,
		table:    table,
		recorder: recorder,
		acker:    acker,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests and replays
func (s *Service) WithClock(fn func() time.Time) *Service {
	s.now = fn
	return s
}

// Handle implements domain.HandlerPort
// Recording ignores the obligation level on purpose: a submission on a day
// off still counts if the schedule changes later
func (s *Service) Handle(ctx context.Context, ev dom.Event) error {
	log := s.log.With().
		Int64("update_id", ev.UpdateID).
		Int64("chat_id", ev.ChatID).
		Logger()

	if ev.ChatID != s.cfg.MainChatID {
		log.Debug().Msg("message outside tracked chat, discarded")
		return nil
	}
	if ev.Handle == "" {
		log.Debug().Msg("message without sender handle, discarded")
		return nil
	}

	cat, ok := s.table.Classify(ev.Text)
	if !ok {
		return nil
	}

	payload := ""
	if classify.KeepsPayload(cat) {
		payload = strings.TrimSpace(ev.Text)
	}
	today := civil.DateOf(s.now().In(s.cfg.TZ))

	if err := s.recorder.Record(ctx, today, cat, ev.Handle, payload); err != nil {
		log.Error().Err(err).
			Str("category", string(cat)).
			Str("handle", ev.Handle).
			Msg("record failed")
		return err
	}
	log.Info().
		Str("category", string(cat)).
		Str("handle", ev.Handle).
		Str("date", today.String()).
		Msg("submission recorded")

	if s.acker != nil && ev.MessageID != 0 {
		if err := s.acker.React(ctx, ev.ChatID, ev.MessageID); err != nil {
			// the submission is already recorded, a lost reaction is cosmetic
			log.Warn().Err(err).Msg("ack reaction failed")
		}
	}
	return nil
}
