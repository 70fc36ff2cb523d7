package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the client registration module.
type Metrics struct {
	ClientsRegistered *prometheus.CounterVec
	ClientRejections  *prometheus.CounterVec
	RegisterDuration  prometheus.Histogram
}

// New creates a new Metrics instance with all client module metrics registered.
func New() *Metrics {
	return &Metrics{
		ClientsRegistered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vise_clients_registered_total",
			Help: "Total clients registered by card tier",
		}, []string{"card_type"}),
		ClientRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vise_client_rejections_total",
			Help: "Total registration rejections by reason",
		}, []string{"reason"}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vise_client_register_duration_seconds",
			Help:    "Duration of client registration including eligibility evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistered records a successful registration.
func (m *Metrics) IncrementRegistered(cardType string) {
	if m != nil {
		m.ClientsRegistered.WithLabelValues(cardType).Inc()
	}
}

// IncrementRejected records a registration rejection.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.ClientRejections.WithLabelValues(reason).Inc()
	}
}

// ObserveRegister records the duration of a Register operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	if m != nil {
		m.RegisterDuration.Observe(time.Since(start).Seconds())
	}
}
