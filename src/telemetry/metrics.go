package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gossip"

// Metrics holds the Prometheus collectors of one node. Each node owns its own
// Registry so several nodes can live in the same process.
type Metrics struct {
	Registry *prometheus.Registry

	MessagesReceived *prometheus.CounterVec
	MessagesSent     *prometheus.CounterVec
	SendErrors       prometheus.Counter
	GossipRounds     prometheus.Counter
	GossipValuesSent prometheus.Counter
	ValuesKnown      prometheus.Gauge
	Neighbors        prometheus.Gauge

	start time.Time
}

// NewMetrics creates and registers the collectors of a node.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		start:    time.Now(),

		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_received_total",
				Help:      "Inbound envelopes, by payload type.",
			},
			[]string{"type"},
		),
		MessagesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_sent_total",
				Help:      "Outbound envelopes handed to the transport, by payload type.",
			},
			[]string{"type"},
		),
		SendErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "send_errors_total",
				Help:      "Envelopes the transport refused.",
			},
		),
		GossipRounds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gossip_rounds_total",
				Help:      "Anti-entropy ticks processed.",
			},
		),
		GossipValuesSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gossip_values_sent_total",
				Help:      "Values pushed to neighbors in gossip messages.",
			},
		),
		ValuesKnown: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "values_known",
				Help:      "Size of the known value set.",
			},
		),
		Neighbors: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "neighbors",
				Help:      "Number of configured neighbors.",
			},
		),
	}

	uptime := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Node uptime in seconds.",
		},
		func() float64 { return m.Uptime().Seconds() },
	)

	m.Registry.MustRegister(
		m.MessagesReceived,
		m.MessagesSent,
		m.SendErrors,
		m.GossipRounds,
		m.GossipValuesSent,
		m.ValuesKnown,
		m.Neighbors,
		uptime,
	)

	return m
}

// Uptime returns the time since the metrics were created.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.start)
}

// Handler exposes the registry. Mount it with mux.Handle("/metrics", m.Handler()).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
