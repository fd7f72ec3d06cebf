package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		webhookRejectsTotal,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Routed webhook events by type and outcome (fulfilled/acknowledged/unhandled/failed).",
		},
		[]string{"type", "outcome"},
	)

	webhookRejectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_rejects_total",
			Help: "Requests rejected before routing (signature_missing/signature_invalid).",
		},
		[]string{"reason"},
	)
)

func IncWebhookEvent(eventType, outcome string) {
	webhookEventsTotal.WithLabelValues(norm(eventType), norm(outcome)).Inc()
}

func IncWebhookReject(reason string) {
	webhookRejectsTotal.WithLabelValues(norm(reason)).Inc()
}
