package store

import (
	"context"
	"errors"
	"time"

	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pool is the part of *pgxpool.Pool the adapter drives
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// pgAdapter is the DB seam over a pgx pool; every statement is reported to the tracer
type pgAdapter struct {
	pool   pool
	tracer pg.QueryTracer
	slow   time.Duration
	close  func()
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{pool: p.Pool, tracer: p.Tracer, slow: p.Slow, close: p.Close}
}

func (a *pgAdapter) Ping(ctx context.Context) error { return a.pool.Ping(ctx) }

func (a *pgAdapter) Close() error {
	if a.close != nil {
		a.close()
	}
	return nil
}

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.pool.Exec(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	return ct, err
}

// Query reports when the result set closes so the time spent scanning counts
func (a *pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.pool.Query(ctx, sql, args...)
	if err != nil {
		a.emit(ctx, sql, args, start, err)
		return nil, err
	}
	return &rows{r: rs, done: func(err error) { a.emit(ctx, sql, args, start, err) }}, nil
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.pool.QueryRow(ctx, sql, args...)
	return row{r: r, done: func(err error) { a.emit(ctx, sql, args, start, err) }}
}

func (a *pgAdapter) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if a.tracer == nil {
		return
	}
	took := time.Since(start)
	a.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:  sql,
		Args: args,
		Took: took,
		Err:  err,
		Slow: a.slow > 0 && took >= a.slow,
	})
}

type row struct {
	r    pgx.Row
	done func(error)
}

// Scan reports pgx.ErrNoRows as NotFound so stores need not import pgx
func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if errors.Is(err, pgx.ErrNoRows) {
		x.done(nil)
		return perr.Wrap(err, perr.ErrorCodeNotFound, "not found")
	}
	x.done(err)
	return err
}

type rows struct {
	r      pgx.Rows
	done   func(error)
	closed bool
}

func (x *rows) Next() bool            { return x.r.Next() }
func (x *rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *rows) Err() error            { return x.r.Err() }

func (x *rows) Close() {
	x.r.Close()
	if !x.closed {
		x.closed = true
		x.done(x.r.Err())
	}
}
