// Package metrics provides Prometheus metrics for the emotion detection service.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Detection outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
)

// Fallback reasons
const (
	ReasonDecode   = "decode"
	ReasonAnalyzer = "analyzer"
	ReasonNoFace   = "no_face"
	ReasonMissing  = "missing_emotions"
	ReasonPanic    = "panic"
)

// EmotionMetrics contains all Prometheus metrics of the service.
// A nil *EmotionMetrics is valid and records nothing.
type EmotionMetrics struct {
	registry *prometheus.Registry

	detectionsTotal  *prometheus.CounterVec
	fallbacksTotal   *prometheus.CounterVec
	analyzerDuration *prometheus.HistogramVec
	facesDetected    prometheus.Histogram

	batchesTotal *prometheus.CounterVec
	batchSize    prometheus.Histogram

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewEmotionMetrics creates and registers the service metrics
func NewEmotionMetrics(registry *prometheus.Registry) (*EmotionMetrics, error) {
	m := &EmotionMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register emotion metrics: %w", err)
	}
	return m, nil
}

func (m *EmotionMetrics) initMetrics() {
	m.detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emotion_detections_total",
			Help: "Total number of emotion detections",
		},
		[]string{"provider", "outcome"}, // outcome: success, fallback
	)

	m.fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emotion_fallbacks_total",
			Help: "Total number of fallback responses by cause",
		},
		[]string{"reason"},
	)

	m.analyzerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emotion_analyzer_duration_seconds",
			Help:    "Time taken by the emotion analyzer",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"provider"},
	)

	m.facesDetected = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "emotion_faces_detected",
		Help:    "Number of faces reported per successful detection",
		Buckets: []float64{1, 2, 3, 5, 10},
	})

	m.batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emotion_batches_total",
			Help: "Total number of batch requests",
		},
		[]string{"status"}, // status: success, error
	)

	m.batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "emotion_batch_size",
		Help:    "Number of items per batch request",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128
	})

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
}

// Describe implements the prometheus.Collector interface.
func (m *EmotionMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.detectionsTotal.Describe(ch)
	m.fallbacksTotal.Describe(ch)
	m.analyzerDuration.Describe(ch)
	m.facesDetected.Describe(ch)
	m.batchesTotal.Describe(ch)
	m.batchSize.Describe(ch)
	m.httpRequestsTotal.Describe(ch)
	m.httpRequestDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *EmotionMetrics) Collect(ch chan<- prometheus.Metric) {
	m.detectionsTotal.Collect(ch)
	m.fallbacksTotal.Collect(ch)
	m.analyzerDuration.Collect(ch)
	m.facesDetected.Collect(ch)
	m.batchesTotal.Collect(ch)
	m.batchSize.Collect(ch)
	m.httpRequestsTotal.Collect(ch)
	m.httpRequestDuration.Collect(ch)
}

// RecordDetection records a successful detection and its face count
func (m *EmotionMetrics) RecordDetection(provider string, faces int) {
	if m == nil {
		return
	}
	m.detectionsTotal.WithLabelValues(provider, OutcomeSuccess).Inc()
	m.facesDetected.Observe(float64(faces))
}

// RecordFallback records a detection that degraded to the fallback response
func (m *EmotionMetrics) RecordFallback(provider, reason string) {
	if m == nil {
		return
	}
	m.detectionsTotal.WithLabelValues(provider, OutcomeFallback).Inc()
	m.fallbacksTotal.WithLabelValues(reason).Inc()
}

// ObserveAnalyzer records the duration of one analyzer call
func (m *EmotionMetrics) ObserveAnalyzer(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.analyzerDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordBatch records a batch request with its size
func (m *EmotionMetrics) RecordBatch(size int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.batchesTotal.WithLabelValues(status).Inc()
	m.batchSize.Observe(float64(size))
}

// RecordHTTPRequest records a served HTTP request
func (m *EmotionMetrics) RecordHTTPRequest(method, path string, statusCode int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler returns the Prometheus exposition handler for the registry
func (m *EmotionMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
