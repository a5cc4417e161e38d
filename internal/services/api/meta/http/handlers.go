// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"atelier/internal/core/version"
	"atelier/internal/modkit/httpkit"
)

// Probe checks one dependency; nil means healthy
type Probe func(context.Context) error

// Check is a named probe; a nil Probe reports skipped
type Check struct {
	Name  string
	Probe Probe
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	// Modules lists what the process mounted
	Modules func() []string
	// Timeout bounds the whole health run; default 2s
	Timeout time.Duration
	Now     func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Modules == nil {
		d.Modules = func() []string { return nil }
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/live", h.live)
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

//
// Swagger DTOs and route docs
//

// LiveResponse is the liveness payload
// swagger:model
type LiveResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"atelier-api"`
	Started string `json:"started"  example:"2024-05-01T09:00:00Z"`
	Now     string `json:"now"      example:"2024-05-01T09:05:00Z"`
}

// HealthCheck describes a single dependency check
type HealthCheck struct {
	Name    string `json:"name"   example:"pg"`
	Status  string `json:"status" example:"ok"` // ok fail skipped
	Error   string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
	Latency int64  `json:"latency_ms"`
}

// HealthResponse summarizes the store guard
type HealthResponse struct {
	Status string        `json:"status" example:"ok"` // ok degraded fail
	Checks []HealthCheck `json:"checks"`
	Now    string        `json:"now"    example:"2024-05-01T09:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string   `json:"name"    example:"atelier-api"`
	Started string   `json:"started" example:"2024-05-01T09:00:00Z"`
	Uptime  int64    `json:"uptime"  example:"300"`
	Modules []string `json:"modules" example:"art,auth,content,meta,users"`
}

// swagger:route GET /meta/live Meta metaLive
// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} LiveResponse "ok"
// @Router /meta/live [get]
func (h *handlers) live(_ *http.Request) (any, error) {
	return LiveResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Store guard: pg, redis and blob probes
// @Description degraded when a backend is not configured, fail when a configured one does not answer
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.Timeout)
	defer cancel()

	checks := make([]HealthCheck, len(h.deps.Checks))
	var wg sync.WaitGroup
	for i, c := range h.deps.Checks {
		if c.Probe == nil {
			checks[i] = HealthCheck{Name: c.Name, Status: "skipped"}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := c.Probe(ctx)
			hc := HealthCheck{Name: c.Name, Status: "ok", Latency: time.Since(start).Milliseconds()}
			if err != nil {
				hc.Status, hc.Error = "fail", err.Error()
			}
			checks[i] = hc
		}()
	}
	wg.Wait()

	return HealthResponse{
		Status: Overall(checks),
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Overall folds check statuses: any fail is fail, any skipped is degraded
func Overall(checks []HealthCheck) string {
	out := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			return "fail"
		case "skipped":
			out = "degraded"
		}
	}
	return out
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info, uptime and mounted modules
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
		Modules: h.deps.Modules(),
	}, nil
}
