// Package service provides audience-to-chat message routing
package service

import (
	"context"

	"dutybot/internal/platform/logger"

	perr "dutybot/internal/platform/errors"
	dom "dutybot/internal/services/notify/domain"
)

// Config maps audiences to chat ids. A zero id means unconfigured
type Config struct {
	MainChatID       int64
	AdminChatID      int64
	SupervisorChatID int64
}

// Service implements domain.RouterPort
type Service struct {
	cfg    Config
	sender dom.SenderPort
	log    logger.Logger
}

// New constructs the router
func New(cfg Config, sender dom.SenderPort, log logger.Logger) *Service {
	return &Service{cfg: cfg, sender: sender, log: log}
}

// Send implements domain.RouterPort
func (s *Service) Send(ctx context.Context, aud dom.Audience, text string) error {
	chatID, err := s.chatFor(aud)
	if err != nil {
		return err
	}
	if text == "" {
		return perr.InvalidArgf("empty message for audience %q", aud)
	}
	if err := s.sender.SendMessage(ctx, chatID, text); err != nil {
		s.log.Error().Err(err).
			Str("audience", string(aud)).
			Int64("chat_id", chatID).
			Msg("send failed")
		return perr.Transportf("send to %s: %v", aud, err)
	}
	return nil
}

func (s *Service) chatFor(aud dom.Audience) (int64, error) {
	var id int64
	switch aud {
	case dom.AudienceMain:
		id = s.cfg.MainChatID
	case dom.AudienceAdmin:
		id = s.cfg.AdminChatID
	case dom.AudienceSupervisor:
		id = s.cfg.SupervisorChatID
	default:
		return 0, perr.InvalidArgf("unknown audience %q", aud)
	}
	if id == 0 {
		return 0, perr.Unavailablef("audience %q has no chat configured", aud)
	}
	return id, nil
}
