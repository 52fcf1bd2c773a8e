// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripplanner"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ScheduleRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schedule_rejections_total",
		Help:      "Schedule placements rejected by the conflict and bounds checks.",
	}, []string{"reason"})

	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Expenses recorded.",
	})

	BalanceDrift = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_drift_total",
		Help:      "Balance computations whose member totals did not sum to zero.",
	})
)

// Rejection reasons
const (
	ReasonOutOfBounds  = "out_of_bounds"
	ReasonTimeConflict = "time_conflict"
)

// Middleware records request counts and latency per matched route
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if sc, ok := err.(interface{ Status() int }); ok {
				status = sc.Status()
			}
		}

		HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
