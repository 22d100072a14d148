package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ShipmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_shipments_created_total",
		Help: "Total number of shipment requests successfully submitted.",
	})

	NegotiationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_negotiation_actions_total",
		Help: "Total number of successful negotiation actions, by action token.",
	},
		[]string{"action"},
	)

	ShipmentsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_shipments_delivered_total",
		Help: "Total number of shipments marked delivered.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ShipmentCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "booking_shipment_cache_items",
		Help: "Current number of items in the open-shipment cache.",
	})
)
