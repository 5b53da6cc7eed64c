package watcher

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	chainHeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Help:      "Chain height seen by the block watcher",
			Name:      "watcher_chain_height",
			Namespace: "phantasma",
		},
		[]string{"chain"},
	)

	watermarkHeight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Help:      "Last block fully processed by the block watcher",
			Name:      "watcher_watermark",
			Namespace: "phantasma",
		},
		[]string{"chain"},
	)

	matchedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of events delivered by the block watcher",
			Name:      "watcher_events_total",
			Namespace: "phantasma",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		chainHeight,
		watermarkHeight,
		matchedEvents,
	)
}
