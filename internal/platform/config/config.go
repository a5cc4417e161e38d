// Package config handles application configuration via environment variables
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"atelier/internal/platform/logger"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

// Conf is a namespaced view over environment variables (e.g. "CORE_API_", "SERVICE_BLOB_")
// Use New() for global access, or Prefix("AUTH_") for module scopes
type Conf struct{ prefix string }

// getenv is a seam so tests can feed values without touching the process env
var getenv = os.Getenv

// Load reads dotenv files into the process env without overriding variables already set
// missing files are skipped so a bare checkout still boots from the real env
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("AUTH_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// value returns the trimmed value for key
func (c Conf) value(k string) string { return strings.TrimSpace(getenv(c.key(k))) }

// required returns the value for key or panics through the root logger
func (c Conf) required(k string) string {
	v := c.value(k)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(k)).Msg("missing required env")
	}
	return v
}

func (c Conf) invalid(k, v, msg string) {
	logger.Get().Panic().Str("key", c.key(k)).Str("value", v).Msg(msg)
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string { return c.required(key) }

// MustSecret panics if the key is missing or shorter than minLen bytes
// the value itself is never logged
func (c Conf) MustSecret(key string, minLen int) string {
	v := c.required(key)
	if len(v) < minLen {
		logger.Get().Panic().Str("key", c.key(key)).Int("min_len", minLen).Msg("secret too short")
	}
	return v
}

// MustInt panics if the given key is missing, empty, or not an int
func (c Conf) MustInt(key string) int {
	s := c.required(key)
	v, err := strconv.Atoi(s)
	if err != nil {
		c.invalid(key, s, "invalid int value")
	}
	return v
}

// MustBool panics if the given key is missing, empty, or not a bool
func (c Conf) MustBool(key string) bool {
	s := c.required(key)
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.invalid(key, s, "invalid bool value")
	}
	return v
}

// MustDuration panics if the given key is missing, empty, or not a valid duration
func (c Conf) MustDuration(key string) time.Duration {
	s := c.required(key)
	d, err := time.ParseDuration(s)
	if err != nil {
		c.invalid(key, s, "invalid duration (e.g., 250ms, 2s, 1h)")
	}
	return d
}

// MustURL panics if the given key is missing, empty, or not a valid absolute URL
func (c Conf) MustURL(key string) *url.URL {
	s := c.required(key)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		c.invalid(key, s, "invalid absolute URL")
	}
	return u
}

// MustPort returns a net/http addr like ":4000" after validating 1..65535
func (c Conf) MustPort(key string) string {
	s := c.required(key)
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		c.invalid(key, s, "invalid TCP port; expected 1..65535")
	}
	return ":" + s
}

// Require ensures that all given keys are present (non-empty). Panics otherwise
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		_ = c.required(k)
	}
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.value(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.value(key)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Int("default", def).Msg("invalid int; using default")
	return def
}

// MayFloat64 returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayFloat64(key string, def float64) float64 {
	s := c.value(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Float64("default", def).Msg("invalid float64; using default")
	return def
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s := c.value(key)
	if s == "" {
		return def
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
	return def
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.value(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Dur("default", def).Msg("invalid duration; using default")
	return def
}

// MayBytes parses a human size like "10MB" or "512KiB"; logs and returns def if invalid
func (c Conf) MayBytes(key string, def int64) int64 {
	s := c.value(key)
	if s == "" {
		return def
	}
	n, err := humanize.ParseBytes(s)
	if err != nil || n > uint64(1<<62) {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Str("default", humanize.IBytes(uint64(def))).
			Msg("invalid byte size; using default")
		return def
	}
	return int64(n)
}

// MayCSV returns a slice of strings from a comma-separated env var; def if missing/empty
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.value(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum ensures value is one of allowed; returns def if empty; panics if invalid
// the returned value is lower cased so callers can switch on it directly
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
