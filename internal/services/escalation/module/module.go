// Package module implements the escalation scheduler module
package module

import (
	"time"

	"dutybot/internal/modkit"
	"dutybot/internal/modkit/httpkit"
	"dutybot/internal/services/escalation/domain"
	"dutybot/internal/services/escalation/service"

	perr "dutybot/internal/platform/errors"
	ledgerdom "dutybot/internal/services/ledger/domain"
	notifydom "dutybot/internal/services/notify/domain"
	rosterdom "dutybot/internal/services/roster/domain"
	scheddom "dutybot/internal/services/schedule/domain"
)

// Ports exposed by the escalation module
type Ports struct {
	Scheduler domain.SchedulerPort
}

// Module implements the escalation scheduler module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs an escalation module from SCHED_* config
// SCHED_TRIGGERS_FILE replaces the built-in trigger table wholesale
func New(
	deps modkit.Deps,
	roster rosterdom.ReaderPort,
	resolver scheddom.ResolverPort,
	ledger ledgerdom.ReaderPort,
	router notifydom.RouterPort,
) (*Module, error) {
	cfg := deps.Cfg.Prefix("SCHED_")

	tzName := cfg.MayString("TZ", "Europe/Moscow")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, perr.InvalidArgf("bad SCHED_TZ %q: %v", tzName, err)
	}

	var triggers []domain.Trigger
	if path := cfg.MayString("TRIGGERS_FILE", ""); path != "" {
		triggers, err = domain.LoadTriggers(path)
		if err != nil {
			return nil, err
		}
	}

	svc := service.New(
		service.Config{Triggers: triggers, TZ: tz},
		roster, resolver, ledger, router,
		deps.Log.With().Str("component", "escalation").Logger(),
	)
	return &Module{deps: deps, svc: svc, ports: Ports{Scheduler: svc}}, nil
}

// Service returns the concrete scheduler for the clock goroutine
func (m *Module) Service() *service.Service { return m.svc }

// Name satisfies module.Module
func (m *Module) Name() string { return "escalation" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
