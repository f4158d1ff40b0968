package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_orders_failed_total",
		Help: "Total number of failed order operations",
	}, []string{"reason"})

	ServiceItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_service_items_added_total",
		Help: "Total number of service items added to orders",
	})

	ItemStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_item_status_changes_total",
		Help: "Total number of service item status changes",
	}, []string{"status"})

	PaymentsRegisteredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_payments_registered_total",
		Help: "Total number of payments registered",
	}, []string{"method"})

	ActivityEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_activity_entries_total",
		Help: "Total number of activity log entries recorded",
	}, []string{"action"})

	LedgerRecomputeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crm_ledger_recompute_latency_seconds",
		Help:    "Latency of order ledger recomputation (child write included)",
		Buckets: prometheus.DefBuckets,
	})

	QueueBuildLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crm_queue_build_latency_seconds",
		Help:    "Latency of smart queue builds",
		Buckets: prometheus.DefBuckets,
	})

	QueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crm_queue_length",
		Help: "Number of open items in the last built smart queue",
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
