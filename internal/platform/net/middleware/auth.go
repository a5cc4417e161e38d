package middleware

import (
	"net/http"

	pnet "atelier/internal/platform/net"
)

// AuthPort resolves the caller from a request, typically from a bearer token
type AuthPort interface {
	// Parse returns a user id and the role claimed by the credential, or an error
	Parse(r *http.Request) (userID string, role string, err error)
}

// Auth rejects requests the port cannot resolve. A nil port passes through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, role, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithUser(r.Context(), uid, role)))
		})
	}
}

// OptionalAuth annotates the context when a credential is present and valid
// requests without one, or with a bad one, continue anonymously
func OptionalAuth(p AuthPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil || r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			if uid, role, err := p.Parse(r); err == nil {
				r = r.WithContext(pnet.WithUser(r.Context(), uid, role))
			}
			next.ServeHTTP(w, r)
		})
	}
}
