package pg

import (
	"context"
	"strings"
	"time"

	"atelier/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent is one finished statement
type QueryEvent struct {
	SQL  string
	Args []any
	Took time.Duration
	Err  error
	Slow bool
}

// Verb is the leading sql keyword, lowercased; "other" when there is none
func (e QueryEvent) Verb() string {
	f := strings.Fields(e.SQL)
	if len(f) == 0 {
		return "other"
	}
	switch v := strings.ToLower(f[0]); v {
	case "select", "insert", "update", "delete", "create", "with":
		return v
	}
	return "other"
}

// QueryTracer receives every statement the adapter runs
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerFunc adapts a func to QueryTracer
type TracerFunc func(ctx context.Context, ev QueryEvent)

func (f TracerFunc) OnQuery(ctx context.Context, ev QueryEvent) { f(ctx, ev) }

// Tracers fans out to every non nil tracer; nil when none remain
func Tracers(ts ...QueryTracer) QueryTracer {
	var out multi
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

type multi []QueryTracer

func (m multi) OnQuery(ctx context.Context, ev QueryEvent) {
	for _, t := range m {
		t.OnQuery(ctx, ev)
	}
}

// LogTracer logs slow and failed statements at warn
// with all set every other statement is logged at info, whatever the root level
func LogTracer(root logger.Logger, all bool) QueryTracer {
	return &logTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(), all: all}
}

type logTracer struct {
	log logger.Logger
	all bool
}

func (l *logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := l.log.Info()
	switch {
	case ev.Slow || ev.Err != nil:
		evt = l.log.Warn()
	case !l.all:
		return
	}
	evt.Float64("elapsed_ms", float64(ev.Took.Microseconds())/1000).
		Bool("slow", ev.Slow).
		Str("verb", ev.Verb()).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds runs of whitespace into one space
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
