package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/percolator/pkg/observability"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

// Metrics implements the observability hooks with Prometheus collectors.
type Metrics struct {
	generateDuration prometheus.Histogram
	generateErrors   prometheus.Counter
	latticeCells     prometheus.Histogram

	clusterDuration *prometheus.HistogramVec
	clusterCount    *prometheus.HistogramVec
	leaks           *prometheus.CounterVec

	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpInflight *prometheus.GaugeVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	const ns = "percolator"
	return &Metrics{
		generateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "lattice",
			Name:      "generate_duration_seconds",
			Help:      "Time to generate or parse a lattice",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		generateErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "lattice",
			Name:      "generate_errors_total",
			Help:      "Lattices rejected during generation or parsing",
		}),
		latticeCells: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "lattice",
			Name:      "cells",
			Help:      "Cells per generated lattice",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),

		clusterDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "cluster",
			Name:      "duration_seconds",
			Help:      "Time to compute a cluster index",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode"}),
		clusterCount: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "cluster",
			Name:      "clusters",
			Help:      "Clusters discovered per index",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"mode"}),
		leaks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "cluster",
			Name:      "leaks_total",
			Help:      "Indexes with a cluster spanning left to right",
		}, []string{"mode"}),

		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Time to render the requested formats",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"formats"}),
		renderErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "render",
			Name:      "errors_total",
			Help:      "Failed renders",
		}, []string{"formats"}),

		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits",
		}, []string{"key_type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses",
		}, []string{"key_type"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),

		httpInflight: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests being served",
		}, []string{"method", "route"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnGenerateStart(context.Context, int, int, float64) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, cells, _ int, d time.Duration, err error) {
	m.generateDuration.Observe(d.Seconds())
	if err != nil {
		m.generateErrors.Inc()
		return
	}
	m.latticeCells.Observe(float64(cells))
}

func (m *Metrics) OnClusterStart(context.Context, string, int) {}

func (m *Metrics) OnClusterComplete(_ context.Context, mode string, clusters int, leaks bool, d time.Duration) {
	m.clusterDuration.WithLabelValues(mode).Observe(d.Seconds())
	m.clusterCount.WithLabelValues(mode).Observe(float64(clusters))
	if leaks {
		m.leaks.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	label := strings.Join(formats, ",")
	if err != nil {
		m.renderErrors.WithLabelValues(label).Inc()
		return
	}
	m.renderDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheHits.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheMisses.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string) {
	m.httpInflight.WithLabelValues(method, route).Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInflight.WithLabelValues(method, route).Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
