// Package metrics exposes pipeline and HTTP Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ArticleIntel/internal/domain"
)

const namespace = "articleintel"

// Metrics holds all collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	IngestItems     *prometheus.CounterVec
	IngestBatches   prometheus.Counter
	BatchSize       prometheus.Histogram
	LastBatchSaved  prometheus.Gauge
	LastBatchUnix   prometheus.Gauge
	Analyses        *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	ClassifierModel prometheus.Gauge
}

// New registers every collector plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IngestItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_items_total",
			Help:      "Articles processed by ingestion, by outcome",
		}, []string{"status"}),
		IngestBatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_batches_total",
			Help:      "Completed ingestion batches",
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_batch_size",
			Help:      "Articles per ingestion batch",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		LastBatchSaved: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_last_batch_saved",
			Help:      "Articles saved by the most recent batch",
		}),
		LastBatchUnix: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_last_batch_timestamp_seconds",
			Help:      "Completion time of the most recent batch",
		}),
		Analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "On-demand analyses served, by operation and cache result",
		}, []string{"operation", "cache"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ClassifierModel: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "classifier_model_samples",
			Help:      "Training samples of the active classifier model, 0 when none is loaded",
		}),
	}
}

// ItemProcessed counts one ingestion outcome.
func (m *Metrics) ItemProcessed(status domain.ItemStatus) {
	m.IngestItems.WithLabelValues(string(status)).Inc()
}

// BatchCompleted records batch-level figures.
func (m *Metrics) BatchCompleted(report domain.IngestReport) {
	m.IngestBatches.Inc()
	m.BatchSize.Observe(float64(report.Crawled))
	m.LastBatchSaved.Set(float64(report.Saved))
	m.LastBatchUnix.Set(float64(time.Now().Unix()))
}

// AnalysisServed counts an on-demand analysis; cached reports whether it was a cache hit.
func (m *Metrics) AnalysisServed(operation string, cached bool) {
	result := "miss"
	if cached {
		result = "hit"
	}
	m.Analyses.WithLabelValues(operation, result).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ModelLoaded reports the active model size.
func (m *Metrics) ModelLoaded(samples int) {
	m.ClassifierModel.Set(float64(samples))
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
