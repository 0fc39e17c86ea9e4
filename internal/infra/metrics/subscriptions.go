package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"compta-billing-platform/internal/domain/model"
)

func init() {
	register(
		subscriptionsExpiredTotal,
		subscriptionsTotal,
		validationDecisionsTotal,
	)
}

var (
	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Total number of subscriptions processed by the expiry worker.",
		},
	)

	subscriptionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subscriptions_total",
			Help: "Current number of subscriptions by persisted statut.",
		},
		[]string{"statut"},
	)

	validationDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_decisions_total",
			Help: "Admin validation decisions by entity kind and outcome.",
		},
		[]string{"entity", "decision"},
	)
)

func IncSubscriptionsExpired(count int) {
	subscriptionsExpiredTotal.Add(float64(count))
}

func SetSubscriptionsTotal(counts map[model.Status]int) {
	for _, s := range []model.Status{model.StatusActive, model.StatusExpired} {
		subscriptionsTotal.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}

func IncValidationDecision(entity, decision string) {
	validationDecisionsTotal.WithLabelValues(entity, decision).Inc()
}
