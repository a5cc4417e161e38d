// Package modkit provides module wiring and core deps
package modkit

import (
	"atelier/internal/modkit/httpkit"
	"atelier/internal/platform/auth"
	"atelier/internal/platform/config"
	"atelier/internal/platform/events"
	"atelier/internal/platform/logger"
	"atelier/internal/platform/mail"
	"atelier/internal/platform/metrics"
	"atelier/internal/platform/store"
	"atelier/internal/platform/store/blob"
	"atelier/internal/platform/store/docs"
	"atelier/internal/platform/store/kv"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// PG is only pinged by meta; modules persist through Docs
	PG   store.DB
	Docs docs.Store
	Blob blob.Store
	KV   kv.Store

	Tokens  *auth.Tokens
	Events  *events.Hub
	Metrics *metrics.Registry
	Mail    mail.Mailer

	// Gate guards protected and admin routes; main fills it once users is built
	Gate httpkit.Gate
}

// Missing names the required deps that are nil, for a startup panic message
func (d Deps) Missing() []string {
	var out []string
	if d.Docs == nil {
		out = append(out, "docs")
	}
	if d.KV == nil {
		out = append(out, "kv")
	}
	if d.Tokens == nil {
		out = append(out, "tokens")
	}
	return out
}
