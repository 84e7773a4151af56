// Package telemetry provides Prometheus collectors for business-level
// observability: cart activity and the checkout funnel.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Cart activity
	CartItemsAdded prometheus.Counter
	CartUpdated    prometheus.Counter
	CartRemoved    prometheus.Counter

	// Checkout funnel
	CheckoutCompleted prometheus.Counter
	CheckoutFailed    *prometheus.CounterVec

	// Orders
	OrdersCreated  prometheus.Counter
	OrderValue     prometheus.Histogram
	OrderItemCount prometheus.Histogram
}

// NewBusinessMetrics creates and registers the business metric collectors.
// Pass prometheus.DefaultRegisterer in production; tests use their own
// registry to avoid duplicate registration.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "lumina"
	}

	m := &BusinessMetrics{
		CartItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Total number of add-to-cart operations",
		}),
		CartUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_updates_total",
			Help:      "Total number of cart quantity updates",
		}),
		CartRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_removals_total",
			Help:      "Total number of cart item removals",
		}),
		CheckoutCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_completed_total",
			Help:      "Total number of successful checkouts",
		}),
		CheckoutFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_failed_total",
			Help:      "Total number of failed checkouts by error code",
		}, []string{"code"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of orders created",
		}),
		OrderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value_cents",
			Help:      "Distribution of order totals in cents",
			Buckets:   prometheus.ExponentialBuckets(500, 4, 8),
		}),
		OrderItemCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_item_count",
			Help:      "Distribution of line items per order",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}

	reg.MustRegister(
		m.CartItemsAdded,
		m.CartUpdated,
		m.CartRemoved,
		m.CheckoutCompleted,
		m.CheckoutFailed,
		m.OrdersCreated,
		m.OrderValue,
		m.OrderItemCount,
	)

	return m
}
