// Package metrics exposes prometheus collectors for the HTTP layer and the
// bulk assignment flows.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pilgrim_api"

type Metrics struct {
	registry *prometheus.Registry

	bulkAssignments *prometheus.CounterVec
	bulkPilgrims    *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		bulkAssignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_assignments_total",
			Help:      "Bulk assignment requests by dimension and outcome.",
		}, []string{"dimension", "outcome"}),
		bulkPilgrims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_assigned_pilgrims_total",
			Help:      "Pilgrims updated by successful bulk assignments.",
		}, []string{"dimension"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.bulkAssignments,
		m.bulkPilgrims,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// ObserveBulk records one bulk assignment. pilgrims is only counted on success.
func (m *Metrics) ObserveBulk(dimension string, pilgrims int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.bulkAssignments.WithLabelValues(dimension, outcome).Inc()
	if err == nil {
		m.bulkPilgrims.WithLabelValues(dimension).Add(float64(pilgrims))
	}
}

func (m *Metrics) ObserveRequest(route, method, code string, seconds float64) {
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
