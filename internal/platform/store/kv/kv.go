// Package kv is a small string key/value seam with ttl, backed by redis or process memory
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired
var ErrNotFound = errors.New("kv: not found")

// Store is the surface auth state needs
// a zero ttl means the key never expires
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	// SetNX sets key only when absent and reports whether it did
	SetNX(ctx context.Context, key, val string, ttl time.Duration) (bool, error)
	// Take returns and deletes key atomically
	Take(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// Prefixed namespaces every key of s under prefix
func Prefixed(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return prefixed{s: s, p: prefix}
}

type prefixed struct {
	s Store
	p string
}

func (x prefixed) Get(ctx context.Context, key string) (string, error) { return x.s.Get(ctx, x.p+key) }
func (x prefixed) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return x.s.Set(ctx, x.p+key, val, ttl)
}
func (x prefixed) SetNX(ctx context.Context, key, val string, ttl time.Duration) (bool, error) {
	return x.s.SetNX(ctx, x.p+key, val, ttl)
}
func (x prefixed) Take(ctx context.Context, key string) (string, error) { return x.s.Take(ctx, x.p+key) }
func (x prefixed) Del(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = x.p + k
	}
	return x.s.Del(ctx, full...)
}
func (x prefixed) Exists(ctx context.Context, key string) (bool, error) {
	return x.s.Exists(ctx, x.p+key)
}
func (x prefixed) Ping(ctx context.Context) error { return x.s.Ping(ctx) }
func (x prefixed) Close() error                   { return x.s.Close() }
