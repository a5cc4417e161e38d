// Package module wires content into the API using modkit
package module

import (
	modkit "atelier/internal/modkit"
	"atelier/internal/modkit/httpkit"
	contenthttp "atelier/internal/services/api/content/http"
	contentrepo "atelier/internal/services/api/content/repo"
	contentsvc "atelier/internal/services/api/content/service"
)

// DefaultPhotoMaxBytes bounds an admin post form when config does not
const DefaultPhotoMaxBytes = 10 << 20

// Module implements the content module
type Module struct {
	modkit.Base

	svc *contentsvc.Svc
}

// New constructs the content module; admin routes use deps.Gate
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	m := &Module{Base: modkit.NewBase("content", "/content", opts...)}
	m.svc = contentsvc.New(contentrepo.New(deps.Docs), deps.Blob, deps.Metrics)

	opt := contenthttp.Options{
		PhotoMaxBytes: deps.Cfg.Prefix("CORE_API_").MayBytes("PHOTO_MAX_BYTES", DefaultPhotoMaxBytes),
	}
	m.Routes = func(r httpkit.Router) { contenthttp.Register(r, m.svc, deps.Gate, opt) }
	return m
}

// Ports exposes nothing
func (m *Module) Ports() any { return nil }
