// Package metrics exposes Prometheus collectors for the HTTP layer and the
// place import pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	imports         *prometheus.CounterVec
	chatReplies     *prometheus.CounterVec
	campaignSweeps  prometheus.Counter
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guialocal",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "guialocal",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guialocal",
			Name:      "place_imports_total",
			Help:      "Place import outcomes (imported, duplicate, no_phone).",
		}, []string{"outcome"}),
		chatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guialocal",
			Name:      "chat_replies_total",
			Help:      "Assistant replies by result (answered, apology).",
		}, []string{"result"}),
		campaignSweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guialocal",
			Name:      "campaign_status_changes_total",
			Help:      "Campaigns activated or expired by the scheduler.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.imports,
		m.chatReplies,
		m.campaignSweeps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordImport counts one import pipeline outcome.
func (m *Metrics) RecordImport(outcome string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(outcome).Inc()
}

// RecordChat counts one assistant reply.
func (m *Metrics) RecordChat(answered bool) {
	if m == nil {
		return
	}
	result := "apology"
	if answered {
		result = "answered"
	}
	m.chatReplies.WithLabelValues(result).Inc()
}

// RecordCampaignChanges adds n scheduler status transitions.
func (m *Metrics) RecordCampaignChanges(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.campaignSweeps.Add(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
