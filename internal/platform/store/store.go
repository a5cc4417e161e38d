// Package store provides a unified interface to optional storage backends
package store

import (
	"context"
	"errors"
	"fmt"

	"atelier/internal/platform/logger"
	"atelier/internal/platform/store/blob"
	"atelier/internal/platform/store/kv"
	"atelier/internal/platform/store/pg"
)

// Store bundles the backends a command opened
// PG and Blob are nil when disabled; KV is always set after Open
type Store struct {
	PG   DB
	KV   kv.Store
	Blob blob.Store

	// Log feeds the pg log tracer and backend warnings
	Log logger.Logger

	tracer pg.QueryTracer
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// DB is the postgres seam
type DB interface {
	RowQuerier
	Pinger
}

// Open dials postgres and blob when enabled and always sets KV, falling back to memory
// whatever was opened before a failure is closed again
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	fail := func(err error) (*Store, error) {
		_ = s.Close(ctx)
		return nil, err
	}

	if cfg.PG.Enabled {
		db, err := openPG(ctx, cfg, s)
		if err != nil {
			return fail(err)
		}
		s.PG = db
	}

	k, err := openKV(ctx, cfg, s)
	if err != nil {
		return fail(err)
	}
	s.KV = k

	if cfg.Blob.Enabled {
		if s.Blob, err = openBlob(ctx, cfg); err != nil {
			return fail(err)
		}
	}
	return s, nil
}

// probe is one named readiness check
type probe struct {
	name string
	ping func(context.Context) error
}

func (s *Store) probes() []probe {
	var out []probe
	if s.PG != nil {
		out = append(out, probe{"pg", s.PG.Ping})
	}
	if s.KV != nil {
		out = append(out, probe{"kv", s.KV.Ping})
	}
	if s.Blob != nil {
		b := s.Blob
		out = append(out, probe{"blob", func(ctx context.Context) error { return blob.Ping(ctx, b, "") }})
	}
	return out
}

// Guard runs every configured backend probe and joins the failures, each tagged with its backend
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: guard on nil store")
	}
	var errs []error
	for _, p := range s.probes() {
		if err := p.ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases kv then postgres; blob drivers hold nothing to release
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.KV != nil {
		errs = append(errs, s.KV.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
