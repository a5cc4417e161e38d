package store

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/platform/store/blob"
	"atelier/internal/platform/store/kv"
	"atelier/internal/platform/store/pg"
)

// openPG opens the pool and waits for postgres to answer before handing out the seam
func openPG(ctx context.Context, cfg Config, s *Store) (DB, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:         cfg.PG.URL,
		MaxConns:    cfg.PG.MaxConns,
		Slow:        time.Duration(cfg.PG.SlowQueryMs) * time.Millisecond,
		Retries:     cfg.PG.ConnectRetries,
		PingTimeout: cfg.PG.PingTimeout,
	}, pg.Tracers(pg.LogTracer(s.Log, cfg.PG.LogSQL), s.tracer))
	if err != nil {
		return nil, err
	}
	if err := p.WaitReady(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

// openKV dials redis when enabled, otherwise hands back process memory
func openKV(ctx context.Context, cfg Config, s *Store) (kv.Store, error) {
	if !cfg.Redis.Enabled {
		s.Log.Warn().Msg("redis disabled; auth state lives in process memory and is lost on restart")
		return kv.Prefixed(kv.NewMemory(), cfg.Redis.Prefix), nil
	}
	r, err := kv.OpenRedis(ctx, kv.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	return kv.Prefixed(r, cfg.Redis.Prefix), nil
}

func openBlob(ctx context.Context, cfg Config) (blob.Store, error) {
	b := cfg.Blob
	switch b.Driver {
	case "s3":
		return blob.OpenS3(ctx, blob.S3Config{
			Bucket:        b.Bucket,
			Region:        b.Region,
			Endpoint:      b.Endpoint,
			AccessKey:     b.AccessKey,
			SecretKey:     b.SecretKey,
			PathStyle:     b.PathStyle,
			PublicBaseURL: b.PublicBaseURL,
			PresignTTL:    b.PresignTTL,
		})
	case "local", "":
		return blob.OpenLocal(b.Dir, b.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", b.Driver)
	}
}
