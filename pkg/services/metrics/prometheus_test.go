package metrics

import (
	"io"
	"net/http"
	"testing"

	"github.com/phantasma-io/phantasma-go/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Name:      "metrics_test_total",
	Namespace: "phantasma",
	Help:      "Counter exposed in service tests",
})

func init() {
	prometheus.MustRegister(testCounter)
}

func TestPrometheusService(t *testing.T) {
	testCounter.Inc()
	s := NewPrometheusService(config.BasicService{
		Enabled:   true,
		Addresses: []string{"127.0.0.1:0"},
	}, zaptest.NewLogger(t))
	require.NoError(t, s.Start())
	t.Cleanup(s.ShutDown)

	addrs := s.Addresses()
	require.Len(t, addrs, 1)
	resp, err := http.Get("http://" + addrs[0] + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "phantasma_metrics_test_total 1")
}

func TestDisabledService(t *testing.T) {
	s := NewPrometheusService(config.BasicService{Addresses: []string{"127.0.0.1:0"}}, nil)
	require.NoError(t, s.Start())
	require.Empty(t, s.Addresses())
	s.ShutDown()
}

func TestStartBadAddress(t *testing.T) {
	s := NewPrometheusService(config.BasicService{
		Enabled:   true,
		Addresses: []string{"256.0.0.1:bad"},
	}, zaptest.NewLogger(t))
	require.Error(t, s.Start())
}

func TestMetricsPathOnly(t *testing.T) {
	s := NewPrometheusService(config.BasicService{
		Enabled:   true,
		Addresses: []string{"127.0.0.1:0"},
	}, nil)
	require.NoError(t, s.Start())
	t.Cleanup(s.ShutDown)

	resp, err := http.Get("http://" + s.Addresses()[0] + "/")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
