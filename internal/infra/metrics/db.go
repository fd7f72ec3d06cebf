package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(dbTxDuration)
}

var dbTxDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_tx_duration_seconds",
		Help:    "Duration of database transactions by final status (committed/rolled_back).",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"status"},
)

func ObserveDBTx(status string, started time.Time) {
	dbTxDuration.WithLabelValues(norm(status)).Observe(time.Since(started).Seconds())
}
