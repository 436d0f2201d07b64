// Package metrics exposes hub activity as Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "darkrelay"

// Metrics implements core.Observer on top of a private registry.
type Metrics struct {
	registry *prometheus.Registry

	connections    prometheus.Gauge
	identities     prometheus.Gauge
	channels       prometheus.Counter
	messages       *prometheus.CounterVec
	moderation     *prometheus.CounterVec
	droppedEvents  prometheus.Counter
	connectionsAll prometheus.Counter
}

// New registers all collectors, plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		connections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Live websocket connections.",
		}),
		connectionsAll: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connections accepted since start.",
		}),
		identities: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_identities",
			Help:      "Connections holding a display name.",
		}),
		channels: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "custom_channels_created_total",
			Help:      "Custom channels created since start.",
		}),
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_broadcast_total",
			Help:      "Chat messages broadcast, by kind.",
		}, []string{"kind"}),
		moderation: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_actions_total",
			Help:      "Executed moderation commands, by verb.",
		}, []string{"verb"}),
		droppedEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Events dropped because a client buffer was full.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ConnectionOpened() {
	m.connections.Inc()
	m.connectionsAll.Inc()
}

func (m *Metrics) ConnectionClosed()   { m.connections.Dec() }
func (m *Metrics) IdentityRegistered() { m.identities.Inc() }
func (m *Metrics) IdentityReleased()   { m.identities.Dec() }
func (m *Metrics) ChannelCreated()     { m.channels.Inc() }

func (m *Metrics) MessageBroadcast(kind string) {
	m.messages.WithLabelValues(kind).Inc()
}

func (m *Metrics) ModerationAction(verb string) {
	m.moderation.WithLabelValues(verb).Inc()
}

func (m *Metrics) EventsDropped(n int) {
	m.droppedEvents.Add(float64(n))
}
