package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records reconciliation and mutation outcomes.
type CartMetrics struct {
	reconcileDuration *prometheus.HistogramVec
	mutationSuccess   *prometheus.CounterVec
	mutationFailure   *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_reconcile_duration_seconds",
		Help:    "Duration of cart reconciliation cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutation_success",
		Help: "Successful cart mutations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutation_failure",
		Help: "Failed cart mutations.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &CartMetrics{
		reconcileDuration: duration,
		mutationSuccess:   success,
		mutationFailure:   failure,
	}
}

// ObserveReconcile records the duration of one reconciliation cycle.
func (c *CartMetrics) ObserveReconcile(duration time.Duration, err error) {
	if c == nil || c.reconcileDuration == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.reconcileDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (c *CartMetrics) IncSuccess(operation string) {
	if c == nil || c.mutationSuccess == nil {
		return
	}
	c.mutationSuccess.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (c *CartMetrics) IncFailure(operation string) {
	if c == nil || c.mutationFailure == nil {
		return
	}
	c.mutationFailure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
