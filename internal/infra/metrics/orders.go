package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		ordersTotal,
		ordersRevenueTotal,
		fulfillmentDuplicates,
	)
}

var (
	ordersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Orders created by successful fulfillment.",
		},
	)

	ordersRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_revenue_total",
			Help: "Total value of fulfilled orders in minor units, labeled by currency.",
		},
		[]string{"currency"},
	)

	fulfillmentDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_duplicates_total",
			Help: "Redelivered charges deduplicated by charge id.",
		},
	)
)

func IncOrder(currency string, amount int64) {
	ordersTotal.Inc()
	ordersRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}

func IncFulfillmentDuplicate() {
	fulfillmentDuplicates.Inc()
}
