package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(cacheRequestsTotal)
}

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Cache lookups by subject and outcome (hit/miss).",
	},
	[]string{"subject", "outcome"},
)

func IncCacheRequest(subject, outcome string) {
	cacheRequestsTotal.WithLabelValues(subject, outcome).Inc()
}
