// Package metrics exposes the prometheus collectors served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the collector set served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grex",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "grex",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	GroupEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grex",
		Name:      "group_events_total",
		Help:      "Group domain events by kind (created, joined, left, deleted, meetup_created).",
	}, []string{"kind"})

	PublicCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grex",
		Name:      "public_groups_cache_total",
		Help:      "Public group listing lookups by result (hit, miss).",
	}, []string{"result"})

	WSConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "grex",
		Name:      "ws_connections",
		Help:      "Open live-event websocket connections.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		GroupEvents,
		PublicCache,
		WSConnections,
	)
}

// Middleware records request count and latency keyed by the matched route
// pattern rather than the raw path.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		method := c.Method()
		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
