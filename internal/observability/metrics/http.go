package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics covers the api binary: request accounting plus the
// Q&A retrieval counters.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal      *prometheus.CounterVec
	qaRequestsTotal   *prometheus.CounterVec
	qaAnswerHitTotal  *prometheus.CounterVec
	qaNoContextTotal  *prometheus.CounterVec
	qaRelevantClauses *prometheus.HistogramVec
	qaDuration        *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plainlegal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plainlegal",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total accepted document uploads.",
		},
		[]string{"service", "extension"},
	)
	qaRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "qa",
			Name:      "requests_total",
			Help:      "Total answered questions.",
		},
		[]string{"service", "scope"},
	)
	qaAnswerHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "qa",
			Name:      "answer_hit_total",
			Help:      "Total answers grounded in at least one clause.",
		},
		[]string{"service"},
	)
	qaNoContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plainlegal",
			Subsystem: "qa",
			Name:      "no_context_total",
			Help:      "Total answers produced without relevant clauses.",
		},
		[]string{"service"},
	)
	qaRelevantClauses := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plainlegal",
			Subsystem: "qa",
			Name:      "relevant_clauses",
			Help:      "Distribution of relevant clauses per answered question.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		},
		[]string{"service"},
	)
	qaDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plainlegal",
			Subsystem: "qa",
			Name:      "duration_seconds",
			Help:      "Question answering duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		qaRequestsTotal,
		qaAnswerHitTotal,
		qaNoContextTotal,
		qaRelevantClauses,
		qaDuration,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		uploadsTotal:      uploadsTotal,
		qaRequestsTotal:   qaRequestsTotal,
		qaAnswerHitTotal:  qaAnswerHitTotal,
		qaNoContextTotal:  qaNoContextTotal,
		qaRelevantClauses: qaRelevantClauses,
		qaDuration:        qaDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses id segments so metric cardinality stays bounded.
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if i >= 3 && part != "" && part != "clauses" && part != "status" && part != "summary" && part != "risks" && part != "simplify" && part != "history" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func (m *HTTPServerMetrics) RecordUpload(service, extension string) {
	if extension == "" {
		extension = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, extension).Inc()
}

func (m *HTTPServerMetrics) RecordQAObservation(service, scope string, relevantClauses int, duration time.Duration) {
	if scope == "" {
		scope = "all"
	}
	m.qaRequestsTotal.WithLabelValues(service, scope).Inc()
	m.qaRelevantClauses.WithLabelValues(service).Observe(float64(relevantClauses))
	m.qaDuration.WithLabelValues(service).Observe(duration.Seconds())

	if relevantClauses > 0 {
		m.qaAnswerHitTotal.WithLabelValues(service).Inc()
		return
	}
	m.qaNoContextTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
