// Package module implements the ingest service module
package module

import (
	"time"

	"dutybot/internal/modkit"
	"dutybot/internal/modkit/httpkit"
	"dutybot/internal/services/ingest/domain"
	"dutybot/internal/services/ingest/service"

	perr "dutybot/internal/platform/errors"
	ledgerdom "dutybot/internal/services/ledger/domain"
)

// Ports exposed by the ingest module
type Ports struct {
	Handler domain.HandlerPort
}

// Module implements the ingest service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs an ingest module from TELEGRAM_CHAT_MAIN and SCHED_TZ config
func New(deps modkit.Deps, recorder ledgerdom.RecorderPort, acker domain.AckPort) (*Module, error) {
	tzName := deps.Cfg.Prefix("SCHED_").MayString("TZ", "Europe/Moscow")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, perr.InvalidArgf("bad SCHED_TZ %q: %v", tzName, err)
	}

	svc := service.New(service.Config{
		MainChatID: deps.Cfg.Prefix("TELEGRAM_").MayInt64("CHAT_MAIN", 0),
		TZ:         tz,
	}, nil, recorder, acker, deps.Log.With().Str("component", "ingest").Logger())

	return &Module{deps: deps, ports: Ports{Handler: svc}}, nil
}

// Name satisfies module.Module
func (m *Module) Name() string { return "ingest" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
