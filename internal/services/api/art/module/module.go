// Package module wires the gallery into the API using modkit
package module

import (
	modkit "atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"
	arthttp "atelier/internal/services/api/art/http"
	artrepo "atelier/internal/services/api/art/repo"
	artsvc "atelier/internal/services/api/art/service"
)

// Module implements the art module
type Module struct {
	modkit.Base

	svc *artsvc.Svc
}

// New constructs the art module
//
// CORE_API_ART_MAX_FILE_BYTES (humanized, default 15MiB) bounds each file and
// CORE_API_ART_MAX_FILES (default 10) the number of files per upload
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	if deps.Blob == nil {
		panic("art module requires a blob store")
	}
	c := deps.Cfg.Prefix("CORE_API_ART_")
	opt := artsvc.Options{
		MaxFileBytes: c.MayBytes("MAX_FILE_BYTES", artsvc.DefaultMaxFileBytes),
		MaxFiles:     c.MayInt("MAX_FILES", artsvc.DefaultMaxFiles),
	}
	m := &Module{Base: modkit.NewBase("art", "/art", opts...)}
	m.svc = artsvc.New(artrepo.New(deps.Docs), deps.Blob, deps.Metrics, opt)

	// form overhead on top of the files themselves
	lim := m.svc.Limits()
	limit := arthttp.Options{MaxBytes: lim.MaxFileBytes*int64(lim.MaxFiles) + 1<<20}
	m.Routes = func(r httpkit.Router) { arthttp.Register(r, m.svc, deps.Gate, limit) }
	return m
}

// Ports exposes nothing
func (m *Module) Ports() any { return nil }
