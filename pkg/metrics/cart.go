package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics tracks snapshot anomalies so stale cart lines are visible.
type CartMetrics struct {
	snapshotSkips *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	skips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_snapshot_skips_total",
		Help: "Cart lines skipped during snapshot because product or variant no longer resolves.",
	}, []string{"reason"})
	reg.MustRegister(skips)
	return &CartMetrics{snapshotSkips: skips}
}

// IncSnapshotSkip counts one skipped cart line for the given reason.
func (c *CartMetrics) IncSnapshotSkip(reason string) {
	if c == nil || c.snapshotSkips == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	c.snapshotSkips.WithLabelValues(reason).Inc()
}
