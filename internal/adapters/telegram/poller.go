package telegram

import (
	"context"
	"strings"
	"time"

	"dutybot/internal/platform/logger"

	ingestdom "dutybot/internal/services/ingest/domain"
)

const (
	defaultPollTimeout = 30 * time.Second
	pollErrorPause     = 3 * time.Second
)

// Poller long polls getUpdates and dispatches each update
type Poller struct {
	client *Client
	ingest ingestdom.HandlerPort
	dialog *Dialog
	log    logger.Logger

	pollTimeout time.Duration
	offset      int64
	sleep       func(time.Duration)
}

// NewPoller constructs the update loop. A nil dialog disables /schedule
func NewPoller(client *Client, ingest ingestdom.HandlerPort, dialog *Dialog) *Poller {
	return &Poller{
		client:      client,
		ingest:      ingest,
		dialog:      dialog,
		log:         *logger.Named("poller"),
		pollTimeout: defaultPollTimeout,
		sleep:       time.Sleep,
	}
}

// Run polls until ctx is cancelled. Updates are dispatched sequentially, so
// the confirmed offset never skips an unprocessed update
func (p *Poller) Run(ctx context.Context) {
	p.log.Info().Msg("poller started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("poller stopped")
			return
		default:
		}

		updates, err := p.client.GetUpdates(ctx, p.offset, int(p.pollTimeout/time.Second))
		if err != nil {
			if ctx.Err() != nil {
				p.log.Info().Msg("poller stopped")
				return
			}
			p.log.Error().Err(err).Msg("getUpdates failed")
			p.sleep(pollErrorPause)
			continue
		}

		for _, u := range updates {
			p.offset = u.UpdateID + 1
			p.dispatch(ctx, u)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, u Update) {
	switch {
	case u.CallbackQuery != nil:
		if p.dialog == nil {
			return
		}
		if err := p.dialog.HandleCallback(ctx, u.CallbackQuery); err != nil {
			p.log.Error().Err(err).Int64("update_id", u.UpdateID).Msg("callback failed")
		}

	case u.Message != nil:
		msg := u.Message
		ctx = logger.WithUpdate(ctx, u.UpdateID, msg.Chat.ID)

		if p.dialog != nil && isScheduleCommand(msg.Text) {
			if err := p.dialog.Start(ctx, msg.Chat.ID); err != nil {
				p.log.Error().Err(err).Int64("update_id", u.UpdateID).Msg("schedule dialog failed")
			}
			return
		}

		ev := ingestdom.Event{
			UpdateID:  u.UpdateID,
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Text:      msg.Text,
		}
		if msg.From != nil {
			ev.Handle = msg.From.Username
		}
		if err := p.ingest.Handle(ctx, ev); err != nil {
			p.log.Error().Err(err).Int64("update_id", u.UpdateID).Msg("ingest failed")
		}
	}
}

// isScheduleCommand matches "/schedule" and "/schedule@botname"
func isScheduleCommand(text string) bool {
	text = strings.TrimSpace(text)
	if text == "/schedule" {
		return true
	}
	return strings.HasPrefix(text, "/schedule@")
}
