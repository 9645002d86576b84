package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface, the clash cache and the solver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	solverRuns      *prometheus.CounterVec
	solverNodes     prometheus.Histogram
	solverDuration  prometheus.Histogram

	cacheHitCount  uint64
	cacheMissCount uint64
	solverRunCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "clash_cache_hit_ratio",
		Help: "Ratio of clash cache hits to total lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clash_cache_hits_total",
		Help: "Total clash cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "clash_cache_misses_total",
		Help: "Total clash cache misses",
	})

	solverRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_runs_total",
		Help: "Solver invocations grouped by outcome",
	}, []string{"outcome"})

	solverNodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_nodes",
		Help:    "Search nodes explored per solver run",
		Buckets: prometheus.ExponentialBuckets(64, 4, 10),
	})

	solverDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solver_duration_seconds",
		Help:    "Wall-clock time per solver run",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHitRatio, cacheHits, cacheMisses, solverRuns, solverNodes, solverDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		solverRuns:      solverRuns,
		solverNodes:     solverNodes,
		solverDuration:  solverDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records clash cache hit/miss metrics and updates the
// hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveSolverRun records one solver invocation. Outcome is one of
// "optimal", "partial", "budget_exhausted" or "error".
func (m *MetricsService) ObserveSolverRun(outcome string, nodes int, duration time.Duration) {
	if m == nil {
		return
	}
	m.solverRuns.WithLabelValues(outcome).Inc()
	m.solverNodes.Observe(float64(nodes))
	m.solverDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.solverRunCount, 1)
}

// SolverRunCount reports how many solver runs have been observed.
func (m *MetricsService) SolverRunCount() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.solverRunCount)
}
