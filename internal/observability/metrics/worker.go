package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics covers the analysis worker: per-document pipeline timing
// plus model fallback counters so degraded runs are visible.
type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec
	sectionsSplit   *prometheus.HistogramVec
	fallbacksTotal  *prometheus.CounterVec
	staleSweptTotal *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plainlegal",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by status.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plainlegal",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight document analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plainlegal",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	sectionsSplit := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plainlegal",
			Subsystem: "worker",
			Name:      "document_sections",
			Help:      "Distribution of sections per processed document.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 20},
		},
		[]string{"service"},
	)
	fallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "worker",
			Name:      "model_fallbacks_total",
			Help:      "Total keyword fallbacks taken when the model failed, by pipeline stage.",
		},
		[]string{"service", "stage"},
	)
	staleSweptTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "worker",
			Name:      "stale_documents_swept_total",
			Help:      "Total stuck processing documents marked failed by the sweep.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal, processDuration, processInFlight,
		queueLag, sectionsSplit, fallbacksTotal, staleSweptTotal,
	)

	return &WorkerMetrics{
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
		sectionsSplit:   sectionsSplit,
		fallbacksTotal:  fallbacksTotal,
		staleSweptTotal: staleSweptTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveSections(service string, count int) {
	m.sectionsSplit.WithLabelValues(service).Observe(float64(count))
}

func (m *WorkerMetrics) RecordFallback(service, stage string) {
	if stage == "" {
		stage = "unknown"
	}
	m.fallbacksTotal.WithLabelValues(service, stage).Inc()
}

func (m *WorkerMetrics) RecordStaleSwept(service string, count int64) {
	if count <= 0 {
		return
	}
	m.staleSweptTotal.WithLabelValues(service).Add(float64(count))
}
