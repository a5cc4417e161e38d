package store

import (
	"context"
	"testing"

	"atelier/internal/platform/logger"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		cfg      func(t *testing.T) Config
		wantErr  bool
		wantBlob bool
	}{
		{
			name: "defaults leave pg and blob off",
			cfg:  func(*testing.T) Config { return Config{Redis: RedisConfig{Prefix: "atelier:"}} },
		},
		{
			name: "local blob",
			cfg: func(t *testing.T) Config {
				return Config{Blob: BlobConfig{Enabled: true, Driver: "local", Dir: t.TempDir()}}
			},
			wantBlob: true,
		},
		{
			name:    "unknown blob driver",
			cfg:     func(*testing.T) Config { return Config{Blob: BlobConfig{Enabled: true, Driver: "ftp"}} },
			wantErr: true,
		},
		{
			name:    "bad postgres url",
			cfg:     func(*testing.T) Config { return Config{PG: PGConfig{Enabled: true, URL: "://bad", MaxConns: 1}} },
			wantErr: true,
		},
		{
			name: "postgres fails before blob is tried",
			cfg: func(t *testing.T) Config {
				return Config{
					PG:   PGConfig{Enabled: true, URL: "://bad"},
					Blob: BlobConfig{Enabled: true, Driver: "local", Dir: t.TempDir()},
				}
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s, err := Open(ctx, tc.cfg(t), WithLogger(logger.Logger{}))
			if tc.wantErr {
				if err == nil || s != nil {
					t.Fatalf("Open = %v, %v; want nil store and an error", s, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			t.Cleanup(func() { _ = s.Close(ctx) })

			if s.PG != nil {
				t.Fatalf("PG = %T, want nil", s.PG)
			}
			if s.KV == nil {
				t.Fatal("KV should fall back to memory")
			}
			if (s.Blob != nil) != tc.wantBlob {
				t.Fatalf("Blob = %T, want set=%v", s.Blob, tc.wantBlob)
			}
			if err := s.KV.Set(ctx, "k", "v", 0); err != nil {
				t.Fatalf("kv Set: %v", err)
			}
			if err := s.Guard(ctx); err != nil {
				t.Fatalf("Guard: %v", err)
			}
		})
	}
}

func TestCloseEmpty(t *testing.T) {
	t.Parallel()

	if err := (&Store{}).Close(context.Background()); err != nil {
		t.Fatalf("Close on empty store: %v", err)
	}
}
