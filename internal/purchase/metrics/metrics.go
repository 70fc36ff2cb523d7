// Package metrics provides Prometheus metrics for the purchase module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds purchase processing metrics. A nil *Metrics is valid and
// records nothing, so wiring stays optional in tests.
type Metrics struct {
	PurchasesProcessed *prometheus.CounterVec
	PurchasesRejected  *prometheus.CounterVec
	DiscountGranted    prometheus.Counter
	ProcessDuration    prometheus.Histogram
}

// New creates a new Metrics instance with all purchase module metrics registered.
func New() *Metrics {
	return &Metrics{
		PurchasesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vise_purchases_processed_total",
			Help: "Approved purchases by card type and whether a benefit applied.",
		}, []string{"card_type", "benefit_applied"}),
		PurchasesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vise_purchases_rejected_total",
			Help: "Rejected purchases by reason.",
		}, []string{"reason"}),
		DiscountGranted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vise_purchase_discount_granted_total",
			Help: "Cumulative discount amount granted across approved purchases.",
		}),
		ProcessDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vise_purchase_process_duration_seconds",
			Help:    "Duration of purchase processing.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// IncrementProcessed records an approved purchase.
func (m *Metrics) IncrementProcessed(cardType string, benefitApplied bool) {
	if m != nil {
		applied := "no"
		if benefitApplied {
			applied = "yes"
		}
		m.PurchasesProcessed.WithLabelValues(cardType, applied).Inc()
	}
}

// IncrementRejected records a rejected purchase.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.PurchasesRejected.WithLabelValues(reason).Inc()
	}
}

// AddDiscount accumulates the granted discount amount.
func (m *Metrics) AddDiscount(amount float64) {
	if m != nil && amount > 0 {
		m.DiscountGranted.Add(amount)
	}
}

// ObserveProcess records the duration of a purchase operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveProcess(start time.Time) {
	if m != nil {
		m.ProcessDuration.Observe(time.Since(start).Seconds())
	}
}
