// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LoginAttempts counts logins by outcome (success, invalid, error).
var LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jewel",
	Subsystem: "auth",
	Name:      "login_attempts_total",
	Help:      "Login attempts by outcome.",
}, []string{"result"})

// BillsCreated counts saved bills by GST mode.
var BillsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jewel",
	Subsystem: "billing",
	Name:      "bills_created_total",
	Help:      "Bills saved, by GST mode.",
}, []string{"gst_mode"})

// ReturnTransitions counts return status changes by target status.
var ReturnTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jewel",
	Subsystem: "returns",
	Name:      "transitions_total",
	Help:      "Return requests moved into each status.",
}, []string{"status"})

// RequestDuration tracks API latency per route.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "jewel",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Middleware records RequestDuration for every matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
