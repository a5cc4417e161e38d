package store

import (
	"context"
	"time"

	"atelier/internal/platform/logger"
	"atelier/internal/platform/store/pg"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// QueryObserver is fed the verb, latency and outcome of every postgres statement
type QueryObserver interface {
	ObserveQuery(verb string, d time.Duration, err error)
}

// WithQueryObserver reports statements to o, typically the metrics registry
func WithQueryObserver(o QueryObserver) Option {
	return func(s *Store) error {
		if o != nil {
			s.tracer = pg.TracerFunc(func(_ context.Context, ev pg.QueryEvent) {
				o.ObserveQuery(ev.Verb(), ev.Took, ev.Err)
			})
		}
		return nil
	}
}
