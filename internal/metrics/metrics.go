package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Generation metrics
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec

	// Domain metrics
	IdeasCreated      prometheus.Counter
	IdeasDeleted      prometheus.Counter
	SignalsRecorded   *prometheus.CounterVec
	ScoresComputed    prometheus.Counter
	CheckoutsStarted  prometheus.Counter
	WebhooksProcessed *prometheus.CounterVec

	// System metrics
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	EventsBroadcast  *prometheus.CounterVec
	ActiveWebsockets prometheus.Gauge
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nichenav_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "nichenav_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path"},
			),

			GenerationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nichenav_generations_total",
					Help: "Total number of LLM generation requests",
				},
				[]string{"model", "success"},
			),
			GenerationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "nichenav_generation_duration_seconds",
					Help:    "LLM generation request duration in seconds",
					Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to 51s
				},
				[]string{"model"},
			),

			IdeasCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nichenav_ideas_created_total",
					Help: "Total number of ideas created",
				},
			),
			IdeasDeleted: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nichenav_ideas_deleted_total",
					Help: "Total number of ideas deleted",
				},
			),
			SignalsRecorded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nichenav_validation_signals_total",
					Help: "Total number of validation signals recorded",
				},
				[]string{"kind"},
			),
			ScoresComputed: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nichenav_validation_scores_total",
					Help: "Total number of validation score computations",
				},
			),
			CheckoutsStarted: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nichenav_checkouts_started_total",
					Help: "Total number of Stripe checkout sessions created",
				},
			),
			WebhooksProcessed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nichenav_billing_webhooks_total",
					Help: "Total number of billing webhook events processed",
				},
				[]string{"event_type", "result"},
			),

			CacheHits: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nichenav_cache_hits_total",
					Help: "Total number of generation cache hits",
				},
			),
			CacheMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "nichenav_cache_misses_total",
					Help: "Total number of generation cache misses",
				},
			),
			EventsBroadcast: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "nichenav_events_broadcast_total",
					Help: "Total number of events broadcast to websocket clients",
				},
				[]string{"event_type"},
			),
			ActiveWebsockets: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "nichenav_active_websockets",
					Help: "Number of connected websocket clients",
				},
			),
		}
	})

	return sharedMetrics
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordGeneration records an LLM generation request
func RecordGeneration(model string, duration time.Duration, success bool) {
	m := NewMetrics()
	successStr := "false"
	if success {
		successStr = "true"
	}
	m.GenerationsTotal.WithLabelValues(model, successStr).Inc()
	m.GenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordCacheHit records a generation cache hit
func RecordCacheHit() {
	NewMetrics().CacheHits.Inc()
}

// RecordCacheMiss records a generation cache miss
func RecordCacheMiss() {
	NewMetrics().CacheMisses.Inc()
}

// RecordSignal records a validation signal by kind
func RecordSignal(kind string) {
	NewMetrics().SignalsRecorded.WithLabelValues(kind).Inc()
}
