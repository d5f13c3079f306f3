package metrics

import (
	"regexp"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginsTotal counts login attempts by result (success, failed).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taller_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// RepairRequestsCreated counts repair requests created by clients.
	RepairRequestsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taller_repair_requests_created_total",
			Help: "Total number of repair requests created",
		},
	)

	// StatusUpdatesTotal counts admin status updates by new status.
	StatusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taller_status_updates_total",
			Help: "Total number of repair request status updates by new status",
		},
		[]string{"status"},
	)
)

var numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, LoginsTotal, RepairRequestsCreated, StatusUpdatesTotal)
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /update_status/123 -> /update_status/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncLogin increments the login counter for result "success" or "failed".
func IncLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

// IncRequestCreated increments the created-requests counter.
func IncRequestCreated() {
	RepairRequestsCreated.Inc()
}

// IncStatusUpdate increments the status-update counter for the new status.
func IncStatusUpdate(status string) {
	StatusUpdatesTotal.WithLabelValues(status).Inc()
}
