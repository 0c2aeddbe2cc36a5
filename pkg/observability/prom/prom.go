// Package prom records observability hook events as Prometheus metrics.
//
// [Hooks] implements every hook interface from
// [github.com/movey-network/movey/pkg/observability] against its own
// registry, so a CLI run and a long-lived registry server never share
// collectors.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/movey-network/movey/pkg/observability"
)

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.IndexHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)

// Hooks collects pipeline, index and HTTP events.
type Hooks struct {
	registry *prometheus.Registry

	stageTotal    *prometheus.CounterVec
	stageErrors   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	packages      prometheus.Gauge

	lookups *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestErrors   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates Hooks with all collectors registered on a fresh registry.
func New() *Hooks {
	h := &Hooks{
		registry: prometheus.NewRegistry(),
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movey_pipeline_stage_total",
				Help: "Number of pipeline stage runs by stage.",
			},
			[]string{"stage"},
		),
		stageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movey_pipeline_stage_error_total",
				Help: "Number of failed pipeline stage runs by stage.",
			},
			[]string{"stage"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "movey_pipeline_stage_duration_seconds",
				Help:    "Time taken by each pipeline stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		packages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "movey_lock_packages",
				Help: "Number of packages in the last written lock file.",
			},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movey_registry_lookup_total",
				Help: "Index lookups by backend and result.",
			},
			[]string{"backend", "result"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movey_http_requests_total",
				Help: "Outgoing registry requests by method and status code.",
			},
			[]string{"method", "code"},
		),
		requestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "movey_http_request_error_total",
				Help: "Outgoing registry requests that failed before a response.",
			},
			[]string{"method"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "movey_http_request_duration_seconds",
				Help:    "Registry request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	h.registry.MustRegister(
		h.stageTotal,
		h.stageErrors,
		h.stageDuration,
		h.packages,
		h.lookups,
		h.requests,
		h.requestErrors,
		h.requestDuration,
	)
	return h
}

// Registry returns the registry holding the collectors.
func (h *Hooks) Registry() *prometheus.Registry { return h.registry }

// Handler serves the collected metrics in the Prometheus exposition format.
func (h *Hooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the collected metrics to path for the node exporter
// textfile collector.
func (h *Hooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func (h *Hooks) stage(name string, duration time.Duration, err error) {
	h.stageTotal.WithLabelValues(name).Inc()
	h.stageDuration.WithLabelValues(name).Observe(duration.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues(name).Inc()
	}
}

func (h *Hooks) OnParseStart(context.Context, string) {}

func (h *Hooks) OnParseComplete(_ context.Context, _ string, _ int, duration time.Duration, err error) {
	h.stage("parse", duration, err)
}

func (h *Hooks) OnResolveStart(context.Context, string, int) {}

func (h *Hooks) OnResolveComplete(_ context.Context, _ string, _ int, duration time.Duration, err error) {
	h.stage("resolve", duration, err)
}

func (h *Hooks) OnWriteStart(context.Context, string) {}

func (h *Hooks) OnWriteComplete(_ context.Context, _ string, packages int, duration time.Duration, err error) {
	h.stage("write", duration, err)
	if err == nil {
		h.packages.Set(float64(packages))
	}
}

func (h *Hooks) OnLookupHit(_ context.Context, backend string) {
	h.lookups.WithLabelValues(backend, "hit").Inc()
}

func (h *Hooks) OnLookupMiss(_ context.Context, backend string) {
	h.lookups.WithLabelValues(backend, "miss").Inc()
}

func (h *Hooks) OnLookupError(_ context.Context, backend string, _ error) {
	h.lookups.WithLabelValues(backend, "error").Inc()
}

func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, method, _, _ string, statusCode int, duration time.Duration) {
	h.requests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	h.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (h *Hooks) OnError(_ context.Context, method, _, _ string, _ error) {
	h.requestErrors.WithLabelValues(method).Inc()
}
