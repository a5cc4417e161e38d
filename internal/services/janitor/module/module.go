// Package module wires up the janitor as a modkit.Module
package module

import (
	"atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"

	jdom "atelier/internal/services/janitor/domain"
	"atelier/internal/services/janitor/guardrails"
	jrepo "atelier/internal/services/janitor/repo"
	jservice "atelier/internal/services/janitor/service"
)

// Ports exported by the janitor module
type Ports struct {
	Sweeper jdom.SweeperPort
}

// Module implements modkit.Module for the janitor
type Module struct {
	opts  Options
	ports Ports
}

// New constructs the janitor over deps.Docs and deps.Blob
// the lease is taken in deps.KV when one is configured
func New(deps modkit.Deps, opts Options) *Module {
	if deps.Docs == nil || deps.Blob == nil {
		panic("janitor module requires docs and blob stores")
	}

	var lease guardrails.Lease
	if opts.EnableLeases && deps.KV != nil {
		lease = guardrails.MakeKVLease(deps.KV, "janitor", opts.LeaseTTL)
	}

	svc := jservice.New(
		deps.Blob,
		jrepo.New(deps.Docs),
		jservice.Config{
			Prefixes: opts.Prefixes,
			Grace:    opts.Grace,
			DryRun:   opts.DryRun,
		},
		deps.Metrics,
		lease,
	)
	return &Module{opts: opts, ports: Ports{Sweeper: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "janitor" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }

// MountRoutes is a no-op: the janitor has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
