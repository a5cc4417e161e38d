// @title         Atelier API
// @version       0.1.0
// @description   Portfolio gallery, studio journal and accounts

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/internal/modkit"
	"atelier/internal/modkit/repokit"
	"atelier/internal/platform/auth"
	"atelier/internal/platform/config"
	"atelier/internal/platform/events"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/mail"
	"atelier/internal/platform/metrics"
	phttp "atelier/internal/platform/net/http"
	"atelier/internal/platform/store"
	"atelier/internal/platform/store/docs"

	"atelier/internal/services/api"
)

func main() {
	// .env is optional; real env wins
	if err := config.Load(".env"); err != nil {
		logger.Get().Warn().Err(err).Msg("ignoring .env")
	}

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the platform store (postgres, redis or memory kv, blob)
	reg := metrics.New("atelier")
	stCfg := store.FromConfig(root, "atelier")
	st, err := store.Open(ctx, stCfg, store.WithLogger(*l), store.WithQueryObserver(reg))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, l, st, 5*time.Second)

	// documents live in postgres when configured, otherwise in process memory
	var docStore docs.Store
	if st.PG != nil {
		pgDocs := docs.NewPG(st.PG)
		if err := pgDocs.Migrate(ctx); err != nil {
			l.Panic().Err(err).Msg("documents migration failed")
		}
		docStore = pgDocs
	} else {
		l.Warn().Msg("SERVICE_PGSQL_DBURL not set; documents are kept in memory and lost on restart")
		docStore = docs.NewMemory()
	}

	tokens, err := auth.NewTokens(auth.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("auth tokens")
	}

	hub := events.NewHub(apiCfg.MayInt("EVENTS_BUFFER", 64))
	hub.Start(ctx)
	defer func() {
		hub.Close()
		hub.Wait()
	}()

	deps := modkit.Deps{
		Log:     *l,
		Cfg:     root,
		PG:      st.PG,
		Docs:    docStore,
		Blob:    st.Blob,
		KV:      st.KV,
		Tokens:  tokens,
		Events:  hub,
		Metrics: reg,
		Mail:    mail.FromConfig(root),
	}

	opt := api.FromConfig(apiCfg)
	if opt.FilesDir == "" && stCfg.Blob.Enabled && stCfg.Blob.Driver == "local" {
		opt.FilesDir = stCfg.Blob.Dir
	}

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)
	closeFn := api.Mount(srv.Router(), deps, opt)
	defer closeFn()

	// serves until SIGINT/SIGTERM, then drains for CORE_API_SHUTDOWN_GRACE
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
