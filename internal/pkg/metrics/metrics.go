// Package metrics exposes the prometheus collectors of the order board.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderboard"

// BoardMetrics groups the counters updated by the board, the realtime adapter and the
// printers. A nil *BoardMetrics is valid and records nothing.
type BoardMetrics struct {
	Transitions    *prometheus.CounterVec
	Reloads        *prometheus.CounterVec
	RealtimeEvents *prometheus.CounterVec
	Prints         *prometheus.CounterVec
	BucketSize     *prometheus.GaugeVec
	HTTPRequests   *prometheus.CounterVec
	HTTPLatencyMS  *prometheus.HistogramVec
}

// NewBoardMetrics creates the collectors and registers them on reg.
func NewBoardMetrics(reg prometheus.Registerer) *BoardMetrics {
	m := &BoardMetrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "transitions_total",
			Help:      "Status transitions requested on the board.",
		}, []string{"from", "to", "result"}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "reloads_total",
			Help:      "Full board reloads.",
		}, []string{"result"}),
		RealtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "events_total",
			Help:      "Change events folded into the board.",
		}, []string{"type", "outcome"}),
		Prints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "printer",
			Name:      "jobs_total",
			Help:      "Print jobs handed to the printer.",
		}, []string{"kind", "result"}),
		BucketSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "orders",
			Help:      "Orders currently held per status column.",
		}, []string{"status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		HTTPLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
	}

	reg.MustRegister(m.Transitions, m.Reloads, m.RealtimeEvents, m.Prints, m.BucketSize, m.HTTPRequests, m.HTTPLatencyMS)
	return m
}

// Transition counts a transition attempt.
func (m *BoardMetrics) Transition(from, to, result string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to, result).Inc()
}

// Reload counts a full reload.
func (m *BoardMetrics) Reload(result string) {
	if m == nil {
		return
	}
	m.Reloads.WithLabelValues(result).Inc()
}

// RealtimeEvent counts a processed change event.
func (m *BoardMetrics) RealtimeEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.RealtimeEvents.WithLabelValues(eventType, outcome).Inc()
}

// Print counts a print job.
func (m *BoardMetrics) Print(kind, result string) {
	if m == nil {
		return
	}
	m.Prints.WithLabelValues(kind, result).Inc()
}

// Buckets sets the column sizes.
func (m *BoardMetrics) Buckets(sizes map[string]int) {
	if m == nil {
		return
	}
	for status, size := range sizes {
		m.BucketSize.WithLabelValues(status).Set(float64(size))
	}
}

// HTTPRequest records a served request.
func (m *BoardMetrics) HTTPRequest(handler, status string, latencyMS float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(handler, status).Inc()
	m.HTTPLatencyMS.WithLabelValues(handler).Observe(latencyMS)
}

// Handler serves the collectors registered on gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
