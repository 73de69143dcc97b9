// Package metrics provides Prometheus metrics export for the dialog
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports pipeline metrics in Prometheus format. It satisfies
// gateway.Recorder and the dialog engine's observer.
type Exporter struct {
	registry *prometheus.Registry

	// Turn metrics
	turnTotal   *prometheus.CounterVec
	turnLatency *prometheus.HistogramVec

	// Gateway metrics
	gatewayCalls   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.turnTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scimatch",
			Subsystem: "dialog",
			Name:      "turns_total",
			Help:      "Processed dialog turns by flow step and message type",
		},
		[]string{"flow_step", "message_type"},
	)
	e.turnLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scimatch",
			Subsystem: "dialog",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end turn latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"flow_step"},
	)
	e.gatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scimatch",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Model gateway calls by prompt kind and status",
		},
		[]string{"kind", "status"},
	)
	e.gatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scimatch",
			Subsystem: "gateway",
			Name:      "call_latency_seconds",
			Help:      "Model gateway call latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"kind"},
	)

	registry.MustRegister(e.turnTotal, e.turnLatency, e.gatewayCalls, e.gatewayLatency)
	return e
}

// ObserveTurn records one completed dialog turn.
func (e *Exporter) ObserveTurn(flowStep, messageType string, duration time.Duration) {
	e.turnTotal.WithLabelValues(flowStep, messageType).Inc()
	e.turnLatency.WithLabelValues(flowStep).Observe(duration.Seconds())
}

// ObserveGatewayCall records one gateway call. Status is one of ok,
// timeout, error, disabled.
func (e *Exporter) ObserveGatewayCall(kind, status string, duration time.Duration) {
	e.gatewayCalls.WithLabelValues(kind, status).Inc()
	e.gatewayLatency.WithLabelValues(kind).Observe(duration.Seconds())
}

// Handler returns the scrape endpoint for the exporter's registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
