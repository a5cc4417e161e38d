// Package logger owns the process zerolog logger and the request fields it carries
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"atelier/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type passed around the tree
type Logger = zerolog.Logger

// Options configures New
type Options struct {
	Level   string // trace debug info warn error; junk falls back to debug
	Format  string // console or json
	Service string
	Writer  io.Writer
	Caller  bool
	// Sample keeps one in Sample events when above 1
	Sample int
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE
// it uses the raw env view since config logs through this package
func FromEnv() Options {
	env := raw.Env("LOG_")
	return Options{
		Level:   env.String("LEVEL", "info"),
		Format:  strings.ToLower(env.String("FORMAT", "console")),
		Service: env.String("SERVICE", ""),
		Caller:  env.Bool("CALLER", false),
		Sample:  env.Int("SAMPLE", 0),
	}
}

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New builds a logger from opt without touching the process root
func New(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		c = c.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	if opt.Caller {
		c = c.Caller()
	}
	l := c.Logger()
	if opt.Sample > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.Sample)})
	}
	return l
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init sets the process root from opt; only the first call, or Get, wins
func Init(opt Options) {
	once.Do(func() {
		l := New(opt)
		root.Store(&l)
	})
}

// Get returns the process root, built from the env on first use
func Get() *Logger {
	Init(FromEnv())
	return root.Load()
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"req_id"}
	keyUserID    = ctxKey{"user_id"}
	keyRole      = ctxKey{"role"}
)

var ctxFields = []struct {
	key   ctxKey
	field string
}{
	{keyRequestID, "request_id"},
	{keyUserID, "user_id"},
	{keyRole, "role"},
}

// WithRequest tags ctx with the request and caller ids; empty values are skipped
func WithRequest(ctx context.Context, reqID, userID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if userID != "" {
		ctx = context.WithValue(ctx, keyUserID, userID)
	}
	return ctx
}

// WithRole tags ctx with the caller's role
func WithRole(ctx context.Context, role string) context.Context {
	if role == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRole, role)
}

// C is the root logger with whatever request fields ctx carries
func C(ctx context.Context) *Logger { return enrich(Get(), ctx) }

func enrich(base *Logger, ctx context.Context) *Logger {
	b := base.With()
	for _, f := range ctxFields {
		if s, ok := ctx.Value(f.key).(string); ok && s != "" {
			b = b.Str(f.field, s)
		}
	}
	l := b.Logger()
	return &l
}

// Named is the root logger with a component field
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}
