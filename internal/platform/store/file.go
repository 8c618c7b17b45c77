package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dutybot/internal/platform/logger"

	perr "dutybot/internal/platform/errors"
)

// fileStore keeps each document as <dir>/<name>.json
// Writes go through a temp file and rename so a crash mid-write never
// leaves a half-written document behind.
type fileStore struct {
	dir string
	mu  sync.Mutex
	log logger.Logger
}

func openFile(cfg FileConfig, log logger.Logger) (*fileStore, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "create store dir %q", dir)
	}
	return &fileStore{dir: dir, log: log}, nil
}

func (s *fileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load implements Documents
func (s *fileStore) Load(_ context.Context, name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return perr.ErrNotFound
		}
		return perr.Wrapf(err, perr.ErrorCodeStorage, "read document %q", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "decode document %q", name)
	}
	return nil
}

// Save implements Documents
func (s *fileStore) Save(_ context.Context, name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "encode document %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "temp file for %q", name)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeStorage, "write document %q", name)
	}
	if err := tmp.Sync(); err != nil {
		s.log.Warn().Err(err).Str("doc", name).Msg("fsync failed")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeStorage, "close document %q", name)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeStorage, "replace document %q", name)
	}
	return nil
}

// Close implements Documents
func (s *fileStore) Close(context.Context) error { return nil }

// validName keeps document names boring: path traversal is not a feature
func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return perr.InvalidArgf("bad document name %q", name)
	}
	return nil
}
