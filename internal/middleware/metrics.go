package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters registered alongside the HTTP metrics.
var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nichehub_redis_errors_total",
		Help: "Redis command errors by command.",
	}, []string{"command"})

	// ReconcileRuns counts reconciliation attempts by outcome ("ok"/"error").
	ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nichehub_reconcile_runs_total",
		Help: "Community identifier reconciliation runs by outcome.",
	}, []string{"outcome"})

	// ReconcileMappings records the mapping size after the last successful run.
	ReconcileMappings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nichehub_reconcile_mappings",
		Help: "Number of catalog entries mapped to a backend community record.",
	})

	// FeedEnrichmentDegraded counts posts served with placeholder enrichment
	// after a per-post lookup failure.
	FeedEnrichmentDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nichehub_feed_enrichment_degraded_total",
		Help: "Posts returned with degraded enrichment after a lookup failure.",
	})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the Fiber app. The
// middleware registers collectors on the default registry, so only the first
// call constructs it; later calls return the same instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware wraps the fiberprometheus middleware handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
