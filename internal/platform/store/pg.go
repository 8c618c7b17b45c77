package store

import (
	"context"
	"encoding/json"

	"dutybot/internal/platform/logger"

	perr "dutybot/internal/platform/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgStore keeps each document as one jsonb row keyed by name
type pgStore struct {
	pool *pgxpool.Pool
	log  logger.Logger
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS documents (
	name       text PRIMARY KEY,
	body       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (*pgStore, error) {
	if cfg.URL == "" {
		return nil, perr.InvalidArgf("postgres backend requires a DBURL")
	}
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse postgres url")
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "connect postgres")
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "ensure documents table")
	}
	return &pgStore{pool: pool, log: log}, nil
}

// Load implements Documents
func (s *pgStore) Load(ctx context.Context, name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM documents WHERE name = $1`, name).Scan(&raw)
	if err == pgx.ErrNoRows {
		return perr.ErrNotFound
	}
	if err != nil {
		if code, ok := perr.StorageErrorCode(err); ok {
			return perr.Wrapf(err, code, "load document %q", name)
		}
		return perr.Wrapf(err, perr.ErrorCodeStorage, "load document %q", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "decode document %q", name)
	}
	return nil
}

// Save implements Documents
func (s *pgStore) Save(ctx context.Context, name string, v any) error {
	if err := validName(name); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "encode document %q", name)
	}
	const q = `
		INSERT INTO documents (name, body, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`
	_, err = s.pool.Exec(ctx, q, name, raw)
	if err != nil && perr.IsRetryable(err) {
		s.log.Warn().Err(err).Str("doc", name).Msg("retrying document upsert")
		_, err = s.pool.Exec(ctx, q, name, raw)
	}
	if err != nil {
		if code, ok := perr.StorageErrorCode(err); ok {
			return perr.Wrapf(err, code, "save document %q", name)
		}
		return perr.Wrapf(err, perr.ErrorCodeStorage, "save document %q", name)
	}
	return nil
}

// Close implements Documents
func (s *pgStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}
