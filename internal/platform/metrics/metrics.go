package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics for the application.
// Domain modules register their own metrics in their metrics packages.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers the application-level metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vise_http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		}, []string{"method", "path", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vise_http_request_duration_seconds",
			Help:    "HTTP request duration by method and path",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
	}
}

// ObserveHTTPRequest records one completed request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
