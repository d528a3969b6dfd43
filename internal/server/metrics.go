package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// telemetry holds the server's own Prometheus instruments. Each Server has
// its own registry so several can coexist in one process.
type telemetry struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	collectErrors   *prometheus.CounterVec
	usagePercent    *prometheus.GaugeVec
}

func newTelemetry() *telemetry {
	t := &telemetry{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysinsight_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sysinsight_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		collectErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sysinsight_collect_errors_total",
				Help: "Metric collections that failed",
			},
			[]string{"metric"},
		),
		usagePercent: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sysinsight_usage_percent",
				Help: "Last collected usage percent per metric",
			},
			[]string{"metric"},
		),
	}

	t.registry.MustRegister(
		t.requestsTotal,
		t.requestDuration,
		t.collectErrors,
		t.usagePercent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return t
}
