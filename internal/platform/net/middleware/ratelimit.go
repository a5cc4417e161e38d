package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	perr "atelier/internal/platform/errors"
	pnet "atelier/internal/platform/net"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures the per client limiter
type RateLimitOptions struct {
	PerMinute int           // sustained requests per minute, default 60
	Burst     int           // default PerMinute
	IdleTTL   time.Duration // limiters unused this long are dropped, default 10m
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter holds one token bucket per client address
type RateLimiter struct {
	opt  RateLimitOptions
	mu   sync.Mutex
	byIP map[string]*visitor
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// NewRateLimiter starts a limiter pool and its sweeper; call Close to stop the sweeper
func NewRateLimiter(opt RateLimitOptions) *RateLimiter {
	if opt.PerMinute <= 0 {
		opt.PerMinute = 60
	}
	if opt.Burst <= 0 {
		opt.Burst = opt.PerMinute
	}
	if opt.IdleTTL <= 0 {
		opt.IdleTTL = 10 * time.Minute
	}
	rl := &RateLimiter{
		opt:  opt,
		byIP: map[string]*visitor{},
		now:  time.Now,
		stop: make(chan struct{}),
	}
	go rl.sweep(opt.IdleTTL / 2)
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.byIP[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.opt.PerMinute)), rl.opt.Burst)}
		rl.byIP[key] = v
	}
	v.seen = rl.now()
	return v.lim
}

// Allow reports whether key may proceed now
func (rl *RateLimiter) Allow(key string) bool { return rl.limiter(key).Allow() }

func (rl *RateLimiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-t.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	cutoff := rl.now().Add(-rl.opt.IdleTTL)
	rl.mu.Lock()
	for k, v := range rl.byIP {
		if v.seen.Before(cutoff) {
			delete(rl.byIP, k)
		}
	}
	rl.mu.Unlock()
}

// Len is the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.byIP)
}

// Close stops the sweeper. Safe to call more than once
func (rl *RateLimiter) Close() { rl.once.Do(func() { close(rl.stop) }) }

// Handler rejects clients over budget with 429 and a Retry-After hint
// pair with RealIP so RemoteAddr is the client and not the proxy
func (rl *RateLimiter) Handler(write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientKey(r)) {
				retry := time.Minute / time.Duration(rl.opt.PerMinute)
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				status, body := pnet.Error(perr.New(perr.ErrorCodeTooManyRequests, "rate limit exceeded"), pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
