// Package modkit provides module wiring and core deps
package modkit

import (
	"dutybot/internal/platform/config"
	"dutybot/internal/platform/logger"
	"dutybot/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	Docs store.Documents
}
