package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mlmodeld",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mlmodeld",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
	)

	modelOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "http",
			Name:      "model_operations_total",
			Help:      "Model operations served over HTTP by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	modelOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mlmodeld",
			Subsystem: "http",
			Name:      "model_operation_duration_seconds",
			Help:      "Handler time per model operation, fits included",
			Buckets:   []float64{.001, .005, .025, .1, .5, 1, 5, 15, 60},
		},
		[]string{"op"},
	)

	backpressureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "http",
			Name:      "backpressure_total",
			Help:      "Total backpressure rejections (429)",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, modelOpsTotal, modelOpDuration, backpressureTotal)
}

// statusRecorder remembers the status a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus. The path label is
// read after the handler ran so chi has filled in the route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInflight.Inc()
		defer httpInflight.Dec()

		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		path := routePatternOrPath(r)
		statusLabel := strconv.Itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(dur)
	})
}

// routePatternOrPath prefers the chi route pattern so model names never
// become label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// opOutcome collapses a response status into the outcome label of
// model_operations_total.
func opOutcome(status int) string {
	switch {
	case status < 300:
		return "ok"
	case status == http.StatusBadRequest:
		return "invalid"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	case status == http.StatusUnprocessableEntity:
		return "fit_failed"
	case status == http.StatusGatewayTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// observeModelOp records one finished model operation (create, describe,
// remove, add, train, predict).
func observeModelOp(op string, status int, start time.Time) {
	modelOpsTotal.WithLabelValues(op, opOutcome(status)).Inc()
	modelOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// IncrementBackpressure counts a 429 sent by the rate limiter.
func IncrementBackpressure(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	backpressureTotal.WithLabelValues(reason).Inc()
}
