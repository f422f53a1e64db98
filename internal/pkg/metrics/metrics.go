// Package metrics exposes the workflow's prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"atelier/internal/core/domain/model/order"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "atelier"

// Metrics holds the collectors of the service.
type Metrics struct {
	registry *prometheus.Registry

	transitions    *prometheus.CounterVec
	claimConflicts *prometheus.CounterVec
	storeRetries   *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	ordersByStatus *prometheus.GaugeVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	streamsOpen    prometheus.Gauge
	notifyFailures *prometheus.CounterVec
	breakerState   *prometheus.GaugeVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Committed order stage transitions.",
		}, []string{"from", "to"}),
		claimConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_conflicts_total",
			Help:      "Conditional writes that lost against a concurrent write.",
		}, []string{"action"}),
		storeRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_retries_total",
			Help:      "Retries after a transient store failure.",
		}, []string{"operation"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_rejected_total",
			Help:      "Workflow actions rejected by validation or authorization.",
		}, []string{"action", "reason"}),
		ordersByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders",
			Help:      "Orders per pipeline stage, refreshed by the pipeline report job.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		streamsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_view_streams_open",
			Help:      "Live stage view subscriptions.",
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notifications a sink failed to deliver.",
		}, []string{"sink"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
	}

	registry.MustRegister(
		m.transitions, m.claimConflicts, m.storeRetries, m.rejections, m.ordersByStatus,
		m.httpRequests, m.httpDuration, m.streamsOpen, m.notifyFailures, m.breakerState,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TransitionCommitted(from, to order.Status) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *Metrics) ClaimConflict(action string) {
	m.claimConflicts.WithLabelValues(action).Inc()
}

func (m *Metrics) StoreRetry(operation string) {
	m.storeRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) ActionRejected(action, reason string) {
	m.rejections.WithLabelValues(action, reason).Inc()
}

// SetOrdersByStatus replaces the stage gauges. Stages missing from counts read zero.
func (m *Metrics) SetOrdersByStatus(counts map[order.Status]int) {
	for _, status := range order.Pipeline() {
		m.ordersByStatus.WithLabelValues(status.String()).Set(float64(counts[status]))
	}
}

func (m *Metrics) RecordHTTPRequest(method, route string, code int, took time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func (m *Metrics) StreamOpened() {
	m.streamsOpen.Inc()
}

func (m *Metrics) StreamClosed() {
	m.streamsOpen.Dec()
}

func (m *Metrics) NotificationFailed(sink string) {
	m.notifyFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) SetBreakerState(name string, state int) {
	m.breakerState.WithLabelValues(name).Set(float64(state))
}
