// Package metrics exposes Prometheus collectors for registry builds,
// editor frames, snapshots and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/conduit-lang/inspector/runtime/metadata"
)

// Default histogram buckets for latency metrics (in seconds).
var defaultBuckets = []float64{
	.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1,
}

// Metrics holds every collector the inspector reports.
type Metrics struct {
	registry *prometheus.Registry

	registriesBuilt *prometheus.CounterVec
	registryFields  *prometheus.GaugeVec
	buildDuration   prometheus.Histogram

	framesDrawn   *prometheus.CounterVec
	fieldsEdited  *prometheus.CounterVec
	snapshotsSave *prometheus.CounterVec
	liveSessions  prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,

		registriesBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inspector_registries_built_total",
			Help: "Field registries built, by type",
		}, []string{"type"}),

		registryFields: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "inspector_registry_fields",
			Help: "Number of fields registered for a type",
		}, []string{"type"}),

		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inspector_registry_build_duration_seconds",
			Help:    "Field registry build latency in seconds",
			Buckets: defaultBuckets,
		}),

		framesDrawn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inspector_frames_drawn_total",
			Help: "Editor frames drawn, by type",
		}, []string{"type"}),

		fieldsEdited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inspector_fields_edited_total",
			Help: "Widget inputs applied to live values, by type",
		}, []string{"type"}),

		snapshotsSave: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inspector_snapshots_saved_total",
			Help: "Snapshots saved, by type",
		}, []string{"type"}),

		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inspector_live_sessions",
			Help: "Open websocket editing sessions",
		}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inspector_http_requests_total",
			Help: "HTTP requests, by route, method and status",
		}, []string{"route", "method", "status"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inspector_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		m.registriesBuilt, m.registryFields, m.buildDuration,
		m.framesDrawn, m.fieldsEdited, m.snapshotsSave, m.liveSessions,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install routes registry build events into m. Only registries built
// after the call are observed.
func (m *Metrics) Install() {
	metadata.OnRegistryBuilt(m.RegistryBuilt)
}

// RegistryBuilt records one registry construction.
func (m *Metrics) RegistryBuilt(typeName string, fields int, elapsed time.Duration) {
	m.registriesBuilt.WithLabelValues(typeName).Inc()
	m.registryFields.WithLabelValues(typeName).Set(float64(fields))
	m.buildDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) FrameDrawn(typeName string) {
	m.framesDrawn.WithLabelValues(typeName).Inc()
}

func (m *Metrics) FieldsEdited(typeName string, n int) {
	if n > 0 {
		m.fieldsEdited.WithLabelValues(typeName).Add(float64(n))
	}
}

func (m *Metrics) SnapshotSaved(typeName string) {
	m.snapshotsSave.WithLabelValues(typeName).Inc()
}

// SessionOpened and SessionClosed track live websocket sessions.
func (m *Metrics) SessionOpened() { m.liveSessions.Inc() }
func (m *Metrics) SessionClosed() { m.liveSessions.Dec() }

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
