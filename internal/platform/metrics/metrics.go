// Package metrics owns the process prometheus registry and the collectors services report into
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the collectors shared by the api and the janitor
type Registry struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	pages        *prometheus.CounterVec
	blobBytes    *prometheus.CounterVec
	sweeps       *prometheus.CounterVec
	authEvents   *prometheus.CounterVec
	queries      *prometheus.HistogramVec
}

// New builds a private registry with runtime collectors and the atelier series under namespace
func New(namespace string) *Registry {
	if namespace == "" {
		namespace = "atelier"
	}
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route pattern and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "listing", Name: "pages_total",
			Help: "Pages served by collection and direction",
		}, []string{"collection", "direction"}),
		blobBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "blob", Name: "bytes_total",
			Help: "Bytes written to or removed from the blob store",
		}, []string{"op"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "janitor", Name: "objects_total",
			Help: "Objects inspected by the janitor by outcome",
		}, []string{"outcome"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "events_total",
			Help: "Auth state transitions by kind",
		}, []string{"kind"}),
		queries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "pg", Name: "query_duration_seconds",
			Help:    "Postgres statement latency by verb and outcome",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"verb", "outcome"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests, r.httpLatency, r.pages, r.blobBytes, r.sweeps, r.authEvents, r.queries,
	)
	return r
}

// Handler exposes the registry in the prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer is the underlying registry for tests and custom exporters
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// ObserveHTTP records one finished request
func (r *Registry) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Page counts a served page, direction is first, next or prev
func (r *Registry) Page(collection, direction string) {
	if r == nil {
		return
	}
	r.pages.WithLabelValues(collection, direction).Inc()
}

// BlobBytes counts bytes by op (put, delete)
func (r *Registry) BlobBytes(op string, n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.blobBytes.WithLabelValues(op).Add(float64(n))
}

// Swept counts janitor outcomes (kept, orphan, deleted, failed)
func (r *Registry) Swept(outcome string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.sweeps.WithLabelValues(outcome).Add(float64(n))
}

// AuthEvent counts login, logout, refresh and similar transitions
func (r *Registry) AuthEvent(kind string) {
	if r == nil {
		return
	}
	r.authEvents.WithLabelValues(kind).Inc()
}

// ObserveQuery records one postgres statement; outcome is ok or error
func (r *Registry) ObserveQuery(verb string, d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.queries.WithLabelValues(verb, outcome).Observe(d.Seconds())
}
