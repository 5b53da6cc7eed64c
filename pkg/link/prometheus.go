package link

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	linkRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of wallet requests sent",
			Name:      "link_requests_total",
			Namespace: "phantasma",
		},
		[]string{"method"},
	)

	pendingRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Number of wallet requests waiting for a reply",
			Name:      "link_pending_requests",
			Namespace: "phantasma",
		},
	)

	evictedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of wallet requests that got no reply in time",
			Name:      "link_evicted_requests_total",
			Namespace: "phantasma",
		},
		[]string{"method"},
	)

	unmatchedResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of wallet messages not matching any request",
			Name:      "link_unmatched_responses_total",
			Namespace: "phantasma",
		},
	)
)

func init() {
	prometheus.MustRegister(
		linkRequests,
		pendingRequests,
		evictedRequests,
		unmatchedResponses,
	)
}
