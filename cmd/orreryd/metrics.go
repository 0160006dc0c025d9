package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsCollector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	neoFetches      *prometheus.CounterVec
	timeClients     prometheus.Gauge
}

func NewMetricsCollector() *MetricsCollector {
	m := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "orrery_request_duration_seconds",
				Help: "Time spent processing request",
			},
			[]string{"endpoint"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_requests_total",
				Help: "Total number of requests",
			},
			[]string{"endpoint", "status"},
		),
		neoFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orrery_neo_fetches_total",
				Help: "NeoWs lookups by outcome",
			},
			[]string{"outcome"},
		),
		timeClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orrery_time_clients",
				Help: "Connected time-control websocket clients",
			},
		),
	}

	m.registry.MustRegister(m.requestDuration)
	m.registry.MustRegister(m.requestsTotal)
	m.registry.MustRegister(m.neoFetches)
	m.registry.MustRegister(m.timeClients)

	return m
}

func (m *MetricsCollector) RecordRequest(endpoint, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(endpoint, status).Inc()
}

func (m *MetricsCollector) RecordNeoFetch(outcome string) {
	m.neoFetches.WithLabelValues(outcome).Inc()
}

func (m *MetricsCollector) ClientConnected()    { m.timeClients.Inc() }
func (m *MetricsCollector) ClientDisconnected() { m.timeClients.Dec() }

func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
