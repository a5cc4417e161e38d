package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemory()
	s.SetClock(func() time.Time { return now })

	_ = s.Set(ctx, "short", "a", time.Minute)
	_ = s.Set(ctx, "forever", "b", 0)

	if v, err := s.Get(ctx, "short"); err != nil || v != "a" {
		t.Fatalf("Get short = %q, %v", v, err)
	}
	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired key err = %v", err)
	}
	if ok, _ := s.Exists(ctx, "forever"); !ok {
		t.Fatalf("no-ttl key vanished")
	}
}

func TestMemorySetNXAndTake(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemory()

	if ok, _ := s.SetNX(ctx, "k", "1", 0); !ok {
		t.Fatalf("first SetNX should win")
	}
	if ok, _ := s.SetNX(ctx, "k", "2", 0); ok {
		t.Fatalf("second SetNX should lose")
	}
	v, err := s.Take(ctx, "k")
	if err != nil || v != "1" {
		t.Fatalf("Take = %q, %v", v, err)
	}
	if _, err := s.Take(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Take err = %v", err)
	}
}

func TestPrefixed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	base := NewMemory()
	p := Prefixed(base, "auth:")

	_ = p.Set(ctx, "revoked:j1", "1", 0)
	if ok, _ := base.Exists(ctx, "auth:revoked:j1"); !ok {
		t.Fatalf("prefix not applied")
	}
	_ = p.Del(ctx, "revoked:j1")
	if ok, _ := p.Exists(ctx, "revoked:j1"); ok {
		t.Fatalf("Del through prefix failed")
	}
	if Prefixed(base, "") != Store(base) {
		t.Fatalf("empty prefix should return the store unchanged")
	}
}
