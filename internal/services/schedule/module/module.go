// Package module implements the schedule service module
package module

import (
	"context"

	"dutybot/internal/modkit"
	"dutybot/internal/modkit/httpkit"
	"dutybot/internal/services/schedule/domain"
	"dutybot/internal/services/schedule/service"
)

// Ports exposed by the schedule module
type Ports struct {
	Patterns domain.PatternsPort
	Resolver domain.ResolverPort
}

// Module implements the schedule service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a schedule module backed by the shared document store
func New(ctx context.Context, deps modkit.Deps) *Module {
	svc := service.New(ctx, deps.Docs, deps.Log.With().Str("component", "schedule").Logger())
	return &Module{deps: deps, ports: Ports{Patterns: svc, Resolver: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "schedule" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
