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

// MetricsSnapshot summarises counters for the health endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	RosterLoads              uint64    `json:"roster_loads"`
	RosterLoadFailures       uint64    `json:"roster_load_failures"`
	OverlapScans             uint64    `json:"overlap_scans"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService owns the Prometheus registry for the timetable service.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	rosterLoads     *prometheus.CounterVec
	rosterDuration  prometheus.Observer
	rosterStudents  prometheus.Gauge
	overlapDuration *prometheus.HistogramVec
	exportJobs      *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	rosterLoadCount      uint64
	rosterFailureCount   uint64
	overlapScanCount     uint64
}

// NewMetricsService registers the collectors on a private registry.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	rosterLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_roster_loads_total",
		Help: "Roster loads by result",
	}, []string{"result"})

	rosterDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_roster_load_seconds",
		Help:    "Time spent reading and resolving the source workbooks",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	rosterStudents := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_roster_students",
		Help: "Students in the current roster",
	})

	overlapDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_overlap_scan_seconds",
		Help:    "Duration of overlap scans",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	exportJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_export_jobs_total",
		Help: "Export jobs by type and final state",
	}, []string{"type", "state"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio,
		rosterLoads, rosterDuration, rosterStudents, overlapDuration, exportJobs, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		rosterLoads:     rosterLoads,
		rosterDuration:  rosterDuration,
		rosterStudents:  rosterStudents,
		overlapDuration: overlapDuration,
		exportJobs:      exportJobs,
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
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup and updates the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveRosterLoad records one reload attempt.
func (m *MetricsService) ObserveRosterLoad(students int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.rosterDuration.Observe(duration.Seconds())
	if err != nil {
		m.rosterLoads.WithLabelValues("failure").Inc()
		atomic.AddUint64(&m.rosterFailureCount, 1)
		return
	}
	m.rosterLoads.WithLabelValues("success").Inc()
	m.rosterStudents.Set(float64(students))
	atomic.AddUint64(&m.rosterLoadCount, 1)
}

// ObserveOverlapScan records a pairwise or ranking scan.
func (m *MetricsService) ObserveOverlapScan(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.overlapDuration.WithLabelValues(kind).Observe(duration.Seconds())
	atomic.AddUint64(&m.overlapScanCount, 1)
}

// RecordExportJob counts an export job reaching a final state.
func (m *MetricsService) RecordExportJob(jobType, state string) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(jobType, state).Inc()
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	var avgMs float64
	if requests > 0 {
		avgMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgMs,
		CacheHitRatio:            ratio,
		RosterLoads:              atomic.LoadUint64(&m.rosterLoadCount),
		RosterLoadFailures:       atomic.LoadUint64(&m.rosterFailureCount),
		OverlapScans:             atomic.LoadUint64(&m.overlapScanCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
