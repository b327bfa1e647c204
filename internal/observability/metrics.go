package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "whatsapp_bridge_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// WebhookMessages tracks inbound webhook messages by outcome
	WebhookMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_bridge_webhook_messages_total",
			Help: "Number of inbound webhook messages processed",
		},
		[]string{"status"},
	)

	// AuthorizationChecks tracks authorization check outcomes
	AuthorizationChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_bridge_authorization_checks_total",
			Help: "Number of session authorization checks",
		},
		[]string{"result"},
	)

	// GatewaySends tracks outbound gateway sends
	GatewaySends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_bridge_gateway_sends_total",
			Help: "Number of messages sent through the WhatsApp gateway",
		},
		[]string{"status"},
	)

	// SessionRecoveries tracks sessions recovered via the phone index
	SessionRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_bridge_session_recoveries_total",
			Help: "Number of session id recoveries by phone number",
		},
		[]string{"result"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "whatsapp_bridge_active_connections",
			Help: "Number of active connections",
		},
	)
)
