// Package pg opens the postgres pool behind the document store and traces what runs on it
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32

	// Slow marks statements at or over it; zero marks none
	Slow time.Duration

	// Retries bounds WaitReady; default 20
	Retries int
	// PingTimeout bounds each ping; default 3s
	PingTimeout time.Duration
}

// PG is the pool plus the tracer its adapter reports to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	Slow   time.Duration

	cfg Config
}

var (
	newPool = pgxpool.NewWithConfig

	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// Open parses cfg.URL and builds the pool; pgxpool connects lazily, see WaitReady
func Open(ctx context.Context, cfg Config, tracer QueryTracer) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 20
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 3 * time.Second
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: tracer, Slow: cfg.Slow, cfg: cfg}, nil
}

// WaitReady pings until postgres answers, backing off between attempts
// a database booting next to the api refuses connections for a while
func (p *PG) WaitReady(ctx context.Context) error {
	return waitReady(ctx, p.Pool.Ping, p.cfg.Retries, p.cfg.PingTimeout)
}

func waitReady(ctx context.Context, ping func(context.Context) error, attempts int, timeout time.Duration) error {
	var last error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		last = ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}
	return fmt.Errorf("postgres not ready after %d attempts: %w", attempts, last)
}

// Close closes the pool; nil safe
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
