// Package module wires auth into the API using modkit
package module

import (
	modkit "atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"
	"atelier/internal/platform/net/middleware"
	"atelier/internal/platform/store/kv"
	"atelier/internal/services/api/auth/domain"
	authhttp "atelier/internal/services/api/auth/http"
	authsvc "atelier/internal/services/api/auth/service"
)

// KeyPrefix namespaces auth state in the kv store
const KeyPrefix = "auth:"

// Ports declares what auth needs injected: the accounts of the users module
type Ports struct {
	Accounts domain.Accounts
}

// Module implements the auth module
type Module struct {
	modkit.Base

	svc     *authsvc.Svc
	limiter *middleware.RateLimiter
}

// New constructs the auth module; it panics without an injected Accounts port
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m := &Module{Base: modkit.NewBase("auth", "/auth", opts...)}

	injected, _ := m.Injected().(Ports)
	if injected.Accounts == nil {
		panic("auth module requires the Accounts port (from users)")
	}
	if deps.Tokens == nil || deps.KV == nil {
		panic("auth module requires tokens and a kv store")
	}

	cfg := FromConfig(deps.Cfg)
	m.svc = authsvc.New(injected.Accounts, deps.Tokens, kv.Prefixed(deps.KV, KeyPrefix), deps.Mail, deps.Events, deps.Metrics,
		authsvc.Options{ResetURL: cfg.ResetURL, ResetTTL: cfg.ResetTTL})
	m.limiter = middleware.NewRateLimiter(middleware.RateLimitOptions{
		PerMinute: cfg.LoginPerMinute,
		Burst:     cfg.LoginBurst,
	})

	gate := deps.Gate
	if gate.Auth == nil {
		gate = httpkit.NewGate(deps.Tokens.ParseAccess, nil)
	}
	opt := authhttp.Options{Limiter: m.limiter, Heartbeat: cfg.Heartbeat}
	m.Routes = func(r httpkit.Router) { authhttp.Register(r, m.svc, gate, opt) }
	return m
}

// Ports exposes nothing; auth only consumes
func (m *Module) Ports() any { return nil }

// Close stops the rate limiter sweeper
func (m *Module) Close() { m.limiter.Close() }
