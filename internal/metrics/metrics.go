// Package metrics exposes ppage's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reload outcomes.
const (
	ReloadOK    = "ok"
	ReloadStale = "stale"
	ReloadError = "error"
	ReloadSame  = "unchanged"
)

// Metrics holds all ppage collectors on an isolated registry so tests can
// create as many instances as they like. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	ReloadsTotal          *prometheus.CounterVec
	ReloadDurationSeconds prometheus.Histogram
	Documents             prometheus.Gauge
	Issues                *prometheus.GaugeVec
	LinkCacheTotal        *prometheus.CounterVec
	GraphNodes            prometheus.Histogram

	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	BuildInfo *prometheus.GaugeVec
}

// New creates a Metrics instance with all collectors registered.
func New(version, goVersion string) *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		ReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppage_reloads_total",
				Help: "Content reloads by outcome.",
			},
			[]string{"result"},
		),
		ReloadDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ppage_reload_duration_seconds",
				Help:    "Time to load content and rebuild the link graph.",
				Buckets: prometheus.DefBuckets,
			},
		),
		Documents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ppage_documents",
				Help: "Documents in the current snapshot.",
			},
		),
		Issues: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ppage_document_issues",
				Help: "Problems found in the current snapshot, by kind.",
			},
			[]string{"kind"},
		),
		LinkCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppage_link_cache_total",
				Help: "Link resolver lookups by cache result.",
			},
			[]string{"result"},
		),
		GraphNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ppage_graph_nodes",
				Help:    "Nodes per neighborhood graph request.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ppage_http_requests_total",
				Help: "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ppage_http_request_duration_seconds",
				Help:    "HTTP request latency by method, route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ppage_info",
				Help: "Build information for the running ppage instance.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(
		m.ReloadsTotal,
		m.ReloadDurationSeconds,
		m.Documents,
		m.Issues,
		m.LinkCacheTotal,
		m.GraphNodes,
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.BuildInfo,
	)

	m.BuildInfo.WithLabelValues(version, goVersion).Set(1)

	return m
}

// Handler returns an http.Handler that serves the Prometheus metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveReload records one reload attempt.
func (m *Metrics) ObserveReload(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.ReloadsTotal.WithLabelValues(result).Inc()
	m.ReloadDurationSeconds.Observe(d.Seconds())
}

// SetSnapshot records the size and issue counts of a published snapshot.
func (m *Metrics) SetSnapshot(documents int, issues map[string]int) {
	if m == nil {
		return
	}
	m.Documents.Set(float64(documents))
	m.Issues.Reset()
	for kind, n := range issues {
		m.Issues.WithLabelValues(kind).Set(float64(n))
	}
}

// ObserveLinkCache records a resolver cache lookup.
func (m *Metrics) ObserveLinkCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LinkCacheTotal.WithLabelValues(result).Inc()
}

// ObserveGraph records the size of a neighborhood graph.
func (m *Metrics) ObserveGraph(nodes int) {
	if m == nil {
		return
	}
	m.GraphNodes.Observe(float64(nodes))
}
