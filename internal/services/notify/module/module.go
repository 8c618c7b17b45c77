// Package module implements the notify service module
package module

import (
	"dutybot/internal/modkit"
	"dutybot/internal/modkit/httpkit"
	"dutybot/internal/services/notify/domain"
	"dutybot/internal/services/notify/service"
)

// Ports exposed by the notify module
type Ports struct {
	Router domain.RouterPort
}

// Module implements the notify service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a notify module from TELEGRAM_CHAT_* config
// The sender is the already-constructed outbound transport
func New(deps modkit.Deps, sender domain.SenderPort) *Module {
	cfg := deps.Cfg.Prefix("TELEGRAM_")
	svc := service.New(service.Config{
		MainChatID:       cfg.MayInt64("CHAT_MAIN", 0),
		AdminChatID:      cfg.MayInt64("CHAT_ADMIN", 0),
		SupervisorChatID: cfg.MayInt64("CHAT_SUPERVISOR", 0),
	}, sender, deps.Log.With().Str("component", "notify").Logger())
	return &Module{deps: deps, ports: Ports{Router: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "notify" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
