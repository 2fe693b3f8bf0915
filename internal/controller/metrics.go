package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	fetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_fetches_total",
			Help: "Collection fetches by resource and outcome.",
		},
		[]string{"resource", "outcome"},
	)

	pollTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_poll_ticks_total",
			Help: "Order polling ticks fired while a session was active.",
		},
	)

	ordersPlacedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Order placements by outcome.",
		},
		[]string{"outcome"},
	)

	productsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_products_created_total",
			Help: "Product creations by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		fetchesTotal,
		pollTicksTotal,
		ordersPlacedTotal,
		productsCreatedTotal,
	)
}
