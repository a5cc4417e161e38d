package middleware

import (
	"net/http"
	"time"

	"atelier/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// statusWriter records the status and body size a handler produced
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func wrap(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController find the real writer
func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

// Flush serves wrappers that only type-assert http.Flusher, chi's compressor among them
func (sw *statusWriter) Flush() { _ = http.NewResponseController(sw.ResponseWriter).Flush() }

// AccessLogOptions tunes AccessLog
type AccessLogOptions struct {
	// Slow logs requests at or above it at warn; 0 never does
	Slow time.Duration
}

// AccessLog writes one line per request through the request scoped logger
func AccessLog(opt AccessLogOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := wrap(w)
			start := time.Now()
			r = r.WithContext(logger.WithRequest(r.Context(), chimw.GetReqID(r.Context()), ""))

			next.ServeHTTP(sw, r)

			took := time.Since(start)
			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case sw.status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && took >= opt.Slow:
				evt = log.Warn().Bool("slow", true)
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route(r)).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("elapsed", took).
				Msg("request")
		})
	}
}

// Observer receives one call per finished request
type Observer interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Metrics reports method, route pattern, status and latency to o; nil o is a no-op
func Metrics(o Observer) Middleware {
	return func(next http.Handler) http.Handler {
		if o == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := wrap(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			o.ObserveHTTP(r.Method, route(r), sw.status, time.Since(start))
		})
	}
}
