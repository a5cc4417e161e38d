// Package module wires users into the API using modkit
package module

import (
	"atelier/internal/core/listing"
	modkit "atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"
	usershttp "atelier/internal/services/api/users/http"
	usersrepo "atelier/internal/services/api/users/repo"
	userssvc "atelier/internal/services/api/users/service"
)

// DefaultAvatarMaxBytes bounds avatar uploads when config does not
const DefaultAvatarMaxBytes = 5 << 20

// Module implements the users module
type Module struct {
	modkit.Base

	svc   *userssvc.Svc
	gate  httpkit.Gate
	ports Ports
}

// New constructs the users module
// its own gate reads roles from this module, so admin routes work before main
// has copied the Roles port into the shared deps
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m := &Module{Base: modkit.NewBase("users", "/users", opts...)}

	var obs listing.Observer
	if deps.Metrics != nil {
		obs = deps.Metrics
	}
	m.svc = userssvc.New(usersrepo.New(deps.Docs), deps.Blob, deps.Events, obs)
	m.ports = Ports{Accounts: m.svc}

	var parse httpkit.TokenFunc
	if deps.Tokens != nil {
		parse = deps.Tokens.ParseAccess
	}
	m.gate = httpkit.NewGate(parse, m.svc)

	opt := usershttp.Options{
		AvatarMaxBytes: deps.Cfg.Prefix("CORE_API_").MayBytes("AVATAR_MAX_BYTES", DefaultAvatarMaxBytes),
	}
	m.Routes = func(r httpkit.Router) { usershttp.Register(r, m.svc, m.gate, opt) }
	return m
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Gate is the route guard backed by this module's stored roles
func (m *Module) Gate() httpkit.Gate { return m.gate }
