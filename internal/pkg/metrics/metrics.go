// Package metrics exposes Prometheus collectors for HTTP traffic, ledger writes and the
// revenue cache, all registered on one Registry served at the metrics endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "payments"

// Registry holds every collector of the service.
var Registry = prometheus.NewRegistry()

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ledgerWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_writes_total",
		Help:      "Ledger upserts by outcome (created, updated) and resulting status.",
	}, []string{"outcome", "status"})

	ledgerDeletes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_deletes_total",
		Help:      "Ledger rows removed.",
	})

	revenueCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_cache_lookups_total",
		Help:      "Revenue summary cache lookups by result (hit, miss).",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		ledgerWrites,
		ledgerDeletes,
		revenueCache,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency of every request. Unmatched routes are grouped
// under "unmatched" to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// PaymentRecorded counts one ledger upsert.
func PaymentRecorded(created bool, status string) {
	outcome := "updated"
	if created {
		outcome = "created"
	}
	ledgerWrites.WithLabelValues(outcome, status).Inc()
}

// PaymentDeleted counts one ledger delete.
func PaymentDeleted() {
	ledgerDeletes.Inc()
}

// RevenueCacheLookup counts one revenue cache lookup.
func RevenueCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	revenueCache.WithLabelValues(result).Inc()
}
