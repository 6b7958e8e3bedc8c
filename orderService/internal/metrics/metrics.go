package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nastyazhadan/order-settlement/orderService/internal/domain/models"
	serviceErrors "github.com/nastyazhadan/order-settlement/shared/errors/service"
)

const namespace = "order_settlement"

// Metrics records order transitions for Prometheus.
type Metrics struct {
	transitions       *prometheus.CounterVec
	transitionLatency *prometheus.HistogramVec
	chargeFailures    *prometheus.CounterVec
	insufficientFunds *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Order transitions by category, transition and outcome",
		}, []string{"category", "transition", "outcome"}),
		transitionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Wall time of one order transition including retries",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"transition"}),
		chargeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charge_failures_total",
			Help:      "Charge postings recorded as failures",
		}, []string{"scope"}),
		insufficientFunds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insufficient_funds_total",
			Help:      "Order placements refused for lack of funds",
		}, []string{"category"}),
	}

	registerer.MustRegister(
		m.transitions,
		m.transitionLatency,
		m.chargeFailures,
		m.insufficientFunds,
	)

	return m
}

func (m *Metrics) ObserveTransition(category models.Category, transition string, err error, took time.Duration) {
	label := string(category)
	if label == "" {
		label = "unknown"
	}

	m.transitions.WithLabelValues(label, transition, outcome(err)).Inc()
	m.transitionLatency.WithLabelValues(transition).Observe(took.Seconds())
}

func (m *Metrics) IncChargeFailure(scope models.ChargeScope) {
	m.chargeFailures.WithLabelValues(string(scope)).Inc()
}

func (m *Metrics) IncInsufficientFunds(category models.Category) {
	m.insufficientFunds.WithLabelValues(string(category)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, serviceErrors.ErrValidation):
		return "invalid"
	case errors.Is(err, serviceErrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, serviceErrors.ErrInvalidState):
		return "conflict"
	case errors.Is(err, serviceErrors.ErrOrderNotFound), errors.Is(err, serviceErrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, serviceErrors.ErrRateLimitExceeded):
		return "rate_limited"
	default:
		return "error"
	}
}
