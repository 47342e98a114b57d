package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_views_total",
		Help: "Total number of product detail views",
	})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart operations",
	}, []string{"op"})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed at checkout",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	OrdersProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_processed_total",
		Help: "Total number of orders dequeued for fulfillment",
	})

	FulfillmentStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_steps_total",
		Help: "Total number of fulfillment status transitions",
	}, []string{"status", "outcome"})

	OrderQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "order_queue_depth",
		Help: "Number of jobs waiting in the order processing queue",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Number of live in-memory user sessions",
	})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_latency_seconds",
		Help:    "Latency of checkout operations",
		Buckets: prometheus.DefBuckets,
	})

	StockDecrementsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_decrements_failed_total",
		Help: "Total number of failed stock decrements",
	}, []string{"reason"})

	EmailsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Total number of order status emails sent",
	})

	EmailsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emails_failed_total",
		Help: "Total number of order status emails that failed to send",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
