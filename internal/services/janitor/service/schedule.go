package service

import (
	"context"

	perr "atelier/internal/platform/errors"
	"atelier/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

// cronLog routes cron's own logging through zerolog
type cronLog struct{ l logger.Logger }

func (c cronLog) Info(msg string, kv ...any) {
	c.l.Debug().Fields(kv).Msg("cron: " + msg)
}

func (c cronLog) Error(err error, msg string, kv ...any) {
	c.l.Error().Err(err).Fields(kv).Msg("cron: " + msg)
}

// Schedule runs Sweep on spec until ctx is done; overlapping runs are skipped
// spec accepts the standard five fields plus descriptors like @every 1h
func (s *Service) Schedule(ctx context.Context, spec string) error {
	cl := cronLog{l: logger.C(ctx).With().Str("mod", "janitor").Logger()}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(ctx); err != nil {
			cl.l.Error().Err(err).Msg("janitor: scheduled sweep failed")
		}
	}); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "janitor: bad schedule %q", spec)
	}

	cl.l.Info().Str("schedule", spec).Msg("janitor: scheduler started")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	cl.l.Info().Msg("janitor: scheduler stopped")
	return nil
}
