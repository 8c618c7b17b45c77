// Package module implements the roster service module
package module

import (
	"dutybot/internal/modkit"
	"dutybot/internal/modkit/httpkit"
	"dutybot/internal/services/roster/domain"
	"dutybot/internal/services/roster/service"
)

// Ports exposed by the roster module
type Ports struct {
	Reader domain.ReaderPort
}

// Module implements the roster service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a roster module from ROSTER_* config
func New(deps modkit.Deps) *Module {
	cfg := deps.Cfg.Prefix("ROSTER_")
	svc := service.New(service.Config{
		People: cfg.MayCSV("PEOPLE", nil),
		Solo:   cfg.MayString("SOLO", ""),
	})
	return &Module{deps: deps, ports: Ports{Reader: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "roster" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
