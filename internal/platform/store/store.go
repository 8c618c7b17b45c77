// Package store provides whole-document persistence for the bot's state.
// Documents are small (a ledger and a schedule), reloaded wholly at startup
// and rewritten wholly on every mutation, so the port is deliberately tiny.
package store

import (
	"context"

	"dutybot/internal/platform/logger"

	perr "dutybot/internal/platform/errors"
)

// Documents is the persistence port used by the ledger and schedule stores
type Documents interface {
	// Load unmarshals the named document into v; perr.ErrNotFound when absent
	Load(ctx context.Context, name string, v any) error
	// Save marshals v and durably replaces the named document
	Save(ctx context.Context, name string, v any) error
	// Close releases backend resources
	Close(ctx context.Context) error
}

// Config selects and configures a backend
type Config struct {
	// Backend is "file" or "postgres"
	Backend string

	File FileConfig
	PG   PGConfig
}

// FileConfig configures the JSON-file backend
type FileConfig struct {
	// Dir holds one <name>.json per document
	Dir string
}

// PGConfig configures the Postgres backend
type PGConfig struct {
	URL      string
	MaxConns int32
}

// Option mutates open-time settings
type Option func(*openCfg)

type openCfg struct {
	log logger.Logger
}

// WithLogger attaches a logger used for storage diagnostics
func WithLogger(l logger.Logger) Option {
	return func(c *openCfg) { c.log = l }
}

// Open builds the configured Documents backend
func Open(ctx context.Context, cfg Config, opts ...Option) (Documents, error) {
	var oc openCfg
	oc.log = *logger.Named("store")
	for _, o := range opts {
		o(&oc)
	}

	switch cfg.Backend {
	case "", "file":
		return openFile(cfg.File, oc.log)
	case "postgres":
		return openPG(ctx, cfg.PG, oc.log)
	default:
		return nil, perr.InvalidArgf("unknown store backend %q", cfg.Backend)
	}
}
