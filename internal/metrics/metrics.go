// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bidnest",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bidnest",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	AuctionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bidnest",
		Name:      "auctions_recorded_total",
		Help:      "Auctions settled and stored.",
	})

	SettlementRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bidnest",
		Name:      "settlement_rejected_total",
		Help:      "Settlement inputs rejected by validation, by field.",
	}, []string{"field"})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bidnest",
		Name:      "payments_recorded_total",
		Help:      "Payments stored, by resulting status.",
	}, []string{"status"})

	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bidnest",
		Name:      "audit_write_failures_total",
		Help:      "Audit entries that could not be delivered.",
	})

	GroupTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bidnest",
		Name:      "group_status_transitions_total",
		Help:      "Automatic chit group status changes made by the scheduler.",
	}, []string{"to"})
)

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
