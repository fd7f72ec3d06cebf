package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(notificationSendsTotal)
}

var notificationSendsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notification_sends_total",
		Help: "Receipt email attempts by mailer and status (sent/failed).",
	},
	[]string{"mailer", "status"},
)

func IncNotificationSend(mailer, status string) {
	notificationSendsTotal.WithLabelValues(norm(mailer), norm(status)).Inc()
}
