package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records outcomes of cart engine operations.
type CartMetrics struct {
	duration *prometheus.HistogramVec
	commits  *prometheus.CounterVec
	rejects  *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_commits",
		Help: "Cart operations that committed a new cart state.",
	}, []string{"operation"})
	rejects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_rejects",
		Help: "Cart operations rejected or failed, by reason.",
	}, []string{"operation", "reason"})
	reg.MustRegister(duration, commits, rejects)
	return &CartMetrics{
		duration: duration,
		commits:  commits,
		rejects:  rejects,
	}
}

// ObserveDuration records the duration for the named operation.
func (c *CartMetrics) ObserveDuration(operation string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncCommit increments the commit counter for the named operation.
func (c *CartMetrics) IncCommit(operation string) {
	if c == nil || c.commits == nil {
		return
	}
	c.commits.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncReject increments the rejection counter for the named operation and reason.
func (c *CartMetrics) IncReject(operation, reason string) {
	if c == nil || c.rejects == nil {
		return
	}
	c.rejects.WithLabelValues(normalizeLabel(operation), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
