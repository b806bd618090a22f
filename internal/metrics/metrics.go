package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hr_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_operations_total",
		Help: "CRUD operations by name and result",
	}, []string{"operation", "result"})

	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hr_validation_failures_total",
		Help: "Rejected form fields by field name",
	}, []string{"field"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, code).Inc()
	httpRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// ObserveOperation counts one CRUD operation; result is e.g. "ok", "invalid",
// "not_found" or "error".
func ObserveOperation(operation, result string) {
	operations.WithLabelValues(operation, result).Inc()
}

func ObserveValidationFailures(fields map[string][]string) {
	for field := range fields {
		validationFailures.WithLabelValues(field).Inc()
	}
}

// StatusRecorder remembers the status code written through it.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (w *StatusRecorder) WriteHeader(code int) {
	w.Status = code
	w.ResponseWriter.WriteHeader(code)
}
