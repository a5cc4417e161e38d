package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "atelier/internal/platform/net/http"
	"atelier/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORS    middleware.CORSOptions
	Metrics middleware.Observer // nil disables request metrics
	Slow    time.Duration       // access log warn threshold, default 500ms
}

// CommonStack returns the baseline middleware for the versioned api
// there is no request timeout here; the auth event stream is long lived
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Slow <= 0 {
		o.Slow = 500 * time.Millisecond
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Recover,
		middleware.NoCache(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.Metrics(o.Metrics),
		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

// OptionalAuth resolves the caller when a token is present and continues anonymously otherwise
func OptionalAuth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.OptionalAuth(p)
}

// RateLimit wraps a per client limiter with the platform JSON writer
func RateLimit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	return rl.Handler(phttp.JSON)
}
