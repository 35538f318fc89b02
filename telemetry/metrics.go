package telemetry

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests received, partitioned by method, route and status class.",
		},
		[]string{"method", "route", "status_class"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, partitioned by method, route and status class.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5},
		},
		[]string{"method", "route", "status_class"},
	)
)

// Domain metrics
var (
	batchesIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "batches_ingested_total",
			Help: "Total number of transaction batches successfully persisted.",
		},
	)

	batchesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batches_rejected_total",
			Help: "Total number of rejected batches, partitioned by reason.",
		},
		[]string{"reason"}, // reasons: malformed | validation | db
	)

	transactionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transactions_created_total",
			Help: "Total number of sales transactions created.",
		},
	)

	highRiskTransactionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "high_risk_transactions_total",
			Help: "Total number of created transactions flagged as high-risk.",
		},
	)

	batchSizeTransactions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batch_size_transactions",
			Help:    "Number of transactions per accepted batch.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
	)
)

// InitMetrics called on startup
func InitMetrics() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		batchesIngestedTotal,
		batchesRejectedTotal,
		transactionsCreatedTotal,
		highRiskTransactionsTotal,
		batchSizeTransactions,
	)
}

// PrometheusMiddleware measures one HTTP request: increments counter and observes latency.
// It uses gin.Context.FullPath() to record the *route template* (e.g., /transactions/batch).
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next() // execute handler chain

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := c.Writer.Status()
		statusClass := fmt.Sprintf("%dxx", status/100)

		httpRequestsTotal.WithLabelValues(method, route, statusClass).Inc()
		httpRequestDurationSeconds.WithLabelValues(method, route, statusClass).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes /metrics in Prometheus text exposition format.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
