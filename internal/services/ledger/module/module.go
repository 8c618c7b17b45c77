// Package module implements the ledger service module
package module

import (
	"context"

	"dutybot/internal/modkit"
	"dutybot/internal/modkit/httpkit"
	"dutybot/internal/services/ledger/domain"
	"dutybot/internal/services/ledger/service"
)

// Ports exposed by the ledger module
type Ports struct {
	Recorder domain.RecorderPort
	Reader   domain.ReaderPort
	Pruner   domain.PrunerPort
}

// Module implements the ledger service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a ledger module backed by the shared document store
func New(ctx context.Context, deps modkit.Deps) *Module {
	svc := service.New(ctx, deps.Docs, deps.Log.With().Str("component", "ledger").Logger())
	return &Module{deps: deps, ports: Ports{Recorder: svc, Reader: svc, Pruner: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "ledger" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
