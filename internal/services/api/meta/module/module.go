// Package module wires meta endpoints into the API
package module

import (
	"context"
	"time"

	modkit "atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"
	modreg "atelier/internal/modkit/module"
	"atelier/internal/platform/store/blob"
	metahttp "atelier/internal/services/api/meta/http"
)

// ServiceName is the name meta reports
const ServiceName = "atelier-api"

// Module implements the meta module
type Module struct {
	modkit.Base

	startedAt time.Time
}

// New constructs a meta module whose health run probes the configured backends
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m := &Module{
		Base:      modkit.NewBase("meta", "/meta", opts...),
		startedAt: time.Now(),
	}
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		Checks:      Checks(deps),
		Modules:     modreg.Names,
	}
	m.Routes = func(r httpkit.Router) { metahttp.Register(r, d) }
	return m
}

// Ports exposes nothing
func (m *Module) Ports() any { return nil }

// Checks builds the store guard from deps; a backend that is not configured is skipped
func Checks(deps modkit.Deps) []metahttp.Check {
	checks := []metahttp.Check{{Name: "pg"}, {Name: "kv"}, {Name: "blob"}}
	if deps.PG != nil {
		checks[0].Probe = deps.PG.Ping
	}
	if deps.KV != nil {
		checks[1].Probe = deps.KV.Ping
	}
	if deps.Blob != nil {
		checks[2].Probe = BlobProbe(deps.Blob)
	}
	return checks
}

// BlobProbe checks the bucket answers under the art prefix
func BlobProbe(b blob.Store) metahttp.Probe {
	return func(ctx context.Context) error { return blob.Ping(ctx, b, "art/") }
}
