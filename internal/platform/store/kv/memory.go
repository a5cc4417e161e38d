package kv

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	val string
	exp time.Time // zero means no expiry
}

// Memory is a process local Store used when redis is not configured and in tests
// expired keys are dropped lazily on access
type Memory struct {
	mu   sync.Mutex
	m    map[string]entry
	now  func() time.Time
}

// NewMemory returns an empty in-process store
func NewMemory() *Memory { return &Memory{m: map[string]entry{}, now: time.Now} }

// SetClock swaps the time source; tests only
func (s *Memory) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Memory) live(key string) (entry, bool) {
	e, ok := s.m[key]
	if !ok {
		return entry{}, false
	}
	if !e.exp.IsZero() && !s.now().Before(e.exp) {
		delete(s.m, key)
		return entry{}, false
	}
	return e, true
}

func (s *Memory) put(key, val string, ttl time.Duration) {
	e := entry{val: val}
	if ttl > 0 {
		e.exp = s.now().Add(ttl)
	}
	s.m[key] = e
}

func (s *Memory) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.live(key); ok {
		return e.val, nil
	}
	return "", ErrNotFound
}

func (s *Memory) Set(_ context.Context, key, val string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, val, ttl)
	return nil
}

func (s *Memory) SetNX(_ context.Context, key, val string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.put(key, val, ttl)
	return true, nil
}

func (s *Memory) Take(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return "", ErrNotFound
	}
	delete(s.m, key)
	return e.val, nil
}

func (s *Memory) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}

func (s *Memory) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live(key)
	return ok, nil
}

func (s *Memory) Ping(context.Context) error { return nil }

func (s *Memory) Close() error {
	s.mu.Lock()
	s.m = map[string]entry{}
	s.mu.Unlock()
	return nil
}
