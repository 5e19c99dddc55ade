package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the counters below.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeSent     = "sent"
)

// SubscriptionMetrics records intake pipeline outcomes.
type SubscriptionMetrics interface {
	IncSubscription(outcome string)
	IncDispatch(outcome string)
}

type subscriptionMetrics struct {
	subscriptions *prometheus.CounterVec
	dispatches    *prometheus.CounterVec
}

// NewSubscriptionMetrics registers the subscription counters on registry.
func NewSubscriptionMetrics(registry prometheus.Registerer) SubscriptionMetrics {
	return &subscriptionMetrics{
		subscriptions: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsletter_subscriptions_total",
				Help: "Subscription requests by outcome.",
			},
			[]string{"outcome"},
		),
		dispatches: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsletter_email_dispatch_total",
				Help: "Welcome email dispatch attempts by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

func (m *subscriptionMetrics) IncSubscription(outcome string) {
	m.subscriptions.WithLabelValues(outcome).Inc()
}

func (m *subscriptionMetrics) IncDispatch(outcome string) {
	m.dispatches.WithLabelValues(outcome).Inc()
}

// Nop discards all observations.
type Nop struct{}

func (Nop) IncSubscription(string) {}
func (Nop) IncDispatch(string)     {}
