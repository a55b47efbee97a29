package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orders",
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Total number of RPC requests by message pattern.",
	}, []string{"pattern", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orders",
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Help:      "RPC request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pattern"})

	reg.MustRegister(requests, latency)

	return &ServerMetrics{Requests: requests, Latency: latency}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
