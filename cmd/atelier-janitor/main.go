package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/internal/modkit"
	"atelier/internal/modkit/module"
	"atelier/internal/modkit/repokit"
	"atelier/internal/platform/config"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/metrics"
	"atelier/internal/platform/store"
	"atelier/internal/platform/store/docs"

	jmod "atelier/internal/services/janitor/module"
)

func main() {
	if err := config.Load(".env"); err != nil {
		logger.Get().Warn().Err(err).Msg("ignoring .env")
	}
	root := config.New()
	l := logger.Get()

	opts := jmod.FromConfig(root)

	// Flags override CORE_JANITOR_*
	var (
		fMode     = flag.String("mode", "once", "janitor mode: once | cron")
		fSchedule = flag.String("schedule", opts.Schedule, "cron spec for -mode cron, e.g. \"@every 1h\" or \"0 3 * * *\"")
		fDryRun   = flag.Bool("dryrun", opts.DryRun, "log orphans but do not delete them")
		fGrace    = flag.Duration("grace", opts.Grace, "spare objects younger than this")
	)
	flag.Parse()
	opts.DryRun = *fDryRun
	opts.Grace = *fGrace

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.New("atelier_janitor")
	st, err := store.Open(ctx, store.FromConfig(root, "atelier"), store.WithLogger(*l), store.WithQueryObserver(reg))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, l, st, 5*time.Second)

	// an empty in-memory document store would make every object look orphaned
	if st.PG == nil {
		l.Panic().Msg("janitor requires SERVICE_PGSQL_DBURL")
	}
	if st.Blob == nil {
		l.Panic().Msg("janitor requires a blob store (SERVICE_BLOB_DRIVER)")
	}

	deps := modkit.Deps{
		Log:     *l,
		Cfg:     root,
		PG:      st.PG,
		Docs:    docs.NewPG(st.PG),
		Blob:    st.Blob,
		KV:      st.KV,
		Metrics: reg,
	}

	jm := jmod.New(deps, opts)
	module.Register(jm)
	sweeper := module.MustPortsOf[jmod.Ports](jm).Sweeper

	switch *fMode {
	case "once":
		rep, err := sweeper.Sweep(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("janitor sweep failed")
		}
		l.Info().
			Int("scanned", rep.Scanned).
			Int("orphans", rep.Orphans).
			Int("deleted", rep.Deleted).
			Bool("dryrun", rep.DryRun).
			Msg("janitor done")

	case "cron":
		if err := sweeper.Schedule(ctx, *fSchedule); err != nil {
			l.Fatal().Err(err).Msg("janitor scheduler failed")
		}

	default:
		l.Panic().Str("mode", *fMode).Msg("janitor unknown -mode (expected: once | cron)")
	}
}
