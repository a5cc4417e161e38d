// Package modkit is the shared shape of an api module: deps in, routes under a prefix, ports out
package modkit

import (
	"atelier/internal/modkit/httpkit"
	"atelier/internal/modkit/module"
	pstrings "atelier/internal/platform/strings"
)

// Module is what the api composes
type Module = module.Module

// Option tunes a module at construction
type Option func(*Base)

// WithPorts hands a module the ports it consumes from another module
// the consuming module owns the concrete type and reads it back with Injected
func WithPorts[T any](p T) Option {
	return func(b *Base) { b.injected = p }
}

// Base is the routing half of a Module; an embedding module sets Routes in its constructor
type Base struct {
	name     string
	prefix   string
	injected any

	Routes func(httpkit.Router)
}

// NewBase names the module and fixes the prefix its routes mount under; an empty prefix panics
func NewBase(name, prefix string, opts ...Option) Base {
	b := Base{name: name, prefix: pstrings.MustPrefix(prefix)}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Name returns the module name
func (b Base) Name() string { return b.name }

// Prefix is where MountRoutes puts the module, e.g. /art
func (b Base) Prefix() string { return b.prefix }

// Injected returns what WithPorts supplied, or nil
func (b Base) Injected() any { return b.injected }

// MountRoutes mounts Routes under Prefix
func (b Base) MountRoutes(r httpkit.Router) {
	r.Route(b.prefix, func(rr httpkit.Router) {
		if b.Routes != nil {
			b.Routes(rr)
		}
	})
}
