package rpcclient

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	rpcCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of node RPC calls",
			Name:      "rpc_calls_total",
			Namespace: "phantasma",
		},
		[]string{"method"},
	)

	rpcRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of repeated node RPC call attempts",
			Name:      "rpc_retries_total",
			Namespace: "phantasma",
		},
		[]string{"method"},
	)

	rpcFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of failed node RPC calls by failure kind",
			Name:      "rpc_failures_total",
			Namespace: "phantasma",
		},
		[]string{"method", "kind"},
	)

	tokenDataInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Number of token data requests in flight",
			Name:      "rpc_token_data_in_flight",
			Namespace: "phantasma",
		},
	)
)

func init() {
	prometheus.MustRegister(
		rpcCalls,
		rpcRetries,
		rpcFailures,
		tokenDataInFlight,
	)
}
