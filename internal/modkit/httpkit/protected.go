package httpkit

import (
	"atelier/internal/platform/net/middleware"

	phttp "atelier/internal/platform/net/http"
)

// Protected groups routes that need a valid access token
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}

// Admin groups routes that need a valid access token and a stored admin role
// the role comes from lookup on every request, never from the token
func Admin(r Router, p middleware.AuthPort, lookup middleware.RoleLookup, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p), middleware.RequireRole(lookup, phttp.JSON, RoleAdmin))
		fn(gr)
	})
}

// Roles known to the api
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Gate bundles what a module needs to guard its routes
type Gate struct {
	Auth  middleware.AuthPort
	Roles middleware.RoleLookup
}

// NewGate builds a gate over an access token parser
// a nil parse still yields a port, one that rejects every token
func NewGate(parse TokenFunc, roles middleware.RoleLookup) Gate {
	return Gate{Auth: port{parse: parse}, Roles: roles}
}

// Protected groups routes behind a valid access token
func (g Gate) Protected(r Router, fn func(Router)) { Protected(r, g.authPort(), fn) }

// Admin groups routes behind a valid access token and a stored admin role
func (g Gate) Admin(r Router, fn func(Router)) { Admin(r, g.authPort(), g.Roles, fn) }

// Optional annotates requests carrying a valid token and lets the rest through
func (g Gate) Optional(r Router, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(OptionalAuth(g.authPort()))
		fn(gr)
	})
}

func (g Gate) authPort() middleware.AuthPort {
	if g.Auth == nil {
		return port{}
	}
	return g.Auth
}
