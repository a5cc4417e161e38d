// Package service sweeps orphaned blobs
package service

import (
	"context"
	"errors"
	"time"

	"atelier/internal/platform/logger"
	"atelier/internal/platform/metrics"
	"atelier/internal/platform/store/blob"
	"atelier/internal/services/janitor/domain"
	"atelier/internal/services/janitor/guardrails"
)

// DefaultPrefixes are the blob prefixes services write under
var DefaultPrefixes = []string{"art/", "content/", "avatars/"}

// Config controls what a sweep looks at and whether it deletes
type Config struct {
	Prefixes []string
	// Grace spares objects younger than this; uploads land in the bucket before their document
	Grace  time.Duration
	DryRun bool
}

// Service walks the bucket and removes objects no document points at
type Service struct {
	Blob    blob.Store
	Refs    domain.RefIndex
	Cfg     Config
	Metrics *metrics.Registry

	// Lease, when set, wraps each sweep
	Lease guardrails.Lease

	now func() time.Time
}

// New constructs the janitor service
func New(b blob.Store, refs domain.RefIndex, cfg Config, reg *metrics.Registry, lease guardrails.Lease) *Service {
	if b == nil {
		panic("janitor.Service requires a blob store")
	}
	if refs == nil {
		panic("janitor.Service requires a ref index")
	}
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = DefaultPrefixes
	}
	if cfg.Grace < 0 {
		cfg.Grace = 0
	}
	return &Service{Blob: b, Refs: refs, Cfg: cfg, Metrics: reg, Lease: lease, now: time.Now}
}

// Sweep runs one pass over every prefix
// a lease held elsewhere is a clean skip with an empty report
func (s *Service) Sweep(ctx context.Context) (domain.Report, error) {
	var rep domain.Report
	run := func(ctx context.Context) error {
		var err error
		rep, err = s.sweep(ctx)
		return err
	}
	if s.Lease == nil {
		err := run(ctx)
		return rep, err
	}
	if err := s.Lease(ctx, run); err != nil {
		if errors.Is(err, guardrails.ErrLeaseHeld) {
			logger.C(ctx).Debug().Str("mod", "janitor").Msg("janitor: lease not acquired; clean skip")
			return domain.Report{DryRun: s.Cfg.DryRun, Prefixes: s.Cfg.Prefixes}, nil
		}
		return rep, err
	}
	return rep, nil
}

func (s *Service) sweep(ctx context.Context) (domain.Report, error) {
	l := logger.C(ctx).With().Str("mod", "janitor").Bool("dryrun", s.Cfg.DryRun).Logger()
	start := s.now()
	cutoff := start.Add(-s.Cfg.Grace)
	rep := domain.Report{DryRun: s.Cfg.DryRun, Prefixes: s.Cfg.Prefixes}

	for _, prefix := range s.Cfg.Prefixes {
		// collect first; deleting while a bucket pages under us can skip keys
		var orphans []blob.Object
		err := s.Blob.List(ctx, prefix, func(o blob.Object) error {
			rep.Scanned++
			if o.Modified.After(cutoff) {
				rep.Young++
				return nil
			}
			ref, err := s.Refs.Referenced(ctx, o.Key)
			if err != nil {
				return err
			}
			if ref {
				rep.Kept++
				return nil
			}
			orphans = append(orphans, o)
			return nil
		})
		if err != nil {
			s.report(rep)
			return rep, err
		}

		for _, o := range orphans {
			rep.Orphans++
			ol := l.With().Str("key", o.Key).Int64("size", o.Size).Time("modified", o.Modified).Logger()
			if s.Cfg.DryRun {
				ol.Info().Msg("janitor: would delete orphan")
				continue
			}
			if err := s.Blob.Delete(ctx, o.Key); err != nil {
				rep.Failed++
				ol.Warn().Err(err).Msg("janitor: delete failed")
				continue
			}
			rep.Deleted++
			s.Metrics.BlobBytes("delete", o.Size)
			ol.Info().Msg("janitor: deleted orphan")
		}
	}

	rep.Took = s.now().Sub(start)
	s.report(rep)
	l.Info().
		Int("scanned", rep.Scanned).
		Int("young", rep.Young).
		Int("kept", rep.Kept).
		Int("orphans", rep.Orphans).
		Int("deleted", rep.Deleted).
		Int("failed", rep.Failed).
		Dur("took", rep.Took).
		Msg("janitor: sweep done")
	return rep, nil
}

func (s *Service) report(rep domain.Report) {
	s.Metrics.Swept("young", rep.Young)
	s.Metrics.Swept("kept", rep.Kept)
	s.Metrics.Swept("orphan", rep.Orphans)
	s.Metrics.Swept("deleted", rep.Deleted)
	s.Metrics.Swept("failed", rep.Failed)
}
