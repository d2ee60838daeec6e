package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PublisherOutcomes counts scheduled-post publication outcomes.
	PublisherOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_publisher_outcomes_total",
		Help: "Scheduled publisher outcomes by result (published, duplicate, retried, failed)",
	}, []string{"outcome"})

	// ScheduledPending is the gauge of pending scheduled-post requests.
	ScheduledPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ripple_scheduled_pending",
		Help: "Number of scheduled-post requests awaiting publication",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler recording HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
