// Package metrics defines the Prometheus instruments shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatcher metrics
var (
	// DispatcherActiveConnections tracks currently connected WebSocket subscribers
	DispatcherActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatcher_active_connections",
			Help: "Number of connected WebSocket subscribers",
		},
	)

	// DispatcherBoundDonors tracks connections currently bound to a donor identity
	DispatcherBoundDonors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatcher_bound_donors",
			Help: "Number of donor identities bound to a live connection",
		},
	)

	// DispatcherAlertsSentTotal tracks targeted emergency alerts by urgency
	DispatcherAlertsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatcher_alerts_sent_total",
			Help: "Targeted emergency alerts sent, by urgency",
		},
		[]string{"urgency"},
	)

	// DispatcherBroadcastsTotal tracks general-alert broadcast cycles
	DispatcherBroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_broadcasts_total",
			Help: "General-alert broadcast cycles completed",
		},
	)

	// DispatcherSendFailuresTotal tracks failed sends that evicted a connection
	DispatcherSendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_send_failures_total",
			Help: "Sends that failed and scheduled the connection for removal",
		},
	)

	// DispatcherNotifyDuration tracks the duration of one notify fan-out
	DispatcherNotifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatcher_notify_duration_seconds",
			Help:    "Duration of one emergency notification fan-out",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		},
	)

	// DispatcherMalformedMessagesTotal tracks inbound messages that failed to decode
	DispatcherMalformedMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatcher_malformed_messages_total",
			Help: "Inbound subscriber messages rejected as malformed",
		},
	)
)

// WebSocket transport metrics
var (
	// WebSocketConnectionsRejected tracks connections refused by the limiter
	WebSocketConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_connections_rejected_total",
			Help: "WebSocket connections rejected, by limit reason",
		},
		[]string{"reason"},
	)

	// WebSocketPingFailures tracks failed keepalive pings
	WebSocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Keepalive pings that failed to send",
		},
	)
)
