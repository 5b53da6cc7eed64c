package metrics

import (
	"net/http"

	"github.com/phantasma-io/phantasma-go/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsPath is where the metrics are served.
const MetricsPath = "/metrics"

// NewPrometheusService creates a service exposing the default Prometheus
// registry (RPC client, wallet link and watcher metrics) on MetricsPath of
// every configured address.
func NewPrometheusService(cfg config.BasicService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	handler := promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			ErrorLog: zap.NewStdLog(log),
		}))
	addrs := cfg.GetAddresses()
	srvs := make([]*http.Server, len(addrs))
	for i, addr := range addrs {
		mux := http.NewServeMux()
		mux.Handle(MetricsPath, handler)
		srvs[i] = &http.Server{
			Addr:    addr,
			Handler: mux,
		}
	}
	return NewService("Prometheus", srvs, cfg, log)
}
