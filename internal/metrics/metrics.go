// Package metrics records per-run analysis metrics and exports them in the Prometheus text format, suitable for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/farcloser/lrascan/internal/types"
)

const namespace = "lrascan"

// Collector owns a private registry, so that several runs in one process never share series.
type Collector struct {
	registry *prometheus.Registry

	files    *prometheus.CounterVec
	duration prometheus.Histogram
	lra      prometheus.Histogram
	lastRun  prometheus.Gauge
}

// New returns a Collector with all series registered.
func New() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		// Labels: outcome (success, failure), kind (error kind, "none" on success)
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files analyzed, by outcome and failure kind",
		}, []string{"outcome", "kind"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing a single file",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		lra: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "loudness_range_lu",
			Help:      "Distribution of measured loudness range values",
			Buckets:   []float64{1, 2, 4, 6, 8, 10, 12, 15, 20, 25},
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished",
		}),
	}
}

// Observe records one completed analysis. It is safe for concurrent use.
func (c *Collector) Observe(outcome types.Outcome, duration time.Duration) {
	c.duration.Observe(duration.Seconds())

	if outcome.OK() {
		c.files.WithLabelValues("success", "none").Inc()
		c.lra.Observe(outcome.LRA)

		return
	}

	c.files.WithLabelValues("failure", outcome.Kind.String()).Inc()
}

// Finish stamps the run completion time.
func (c *Collector) Finish(at time.Time) {
	c.lastRun.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry, e.g. for tests or an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteFile atomically writes all metrics to path in the text exposition format.
func (c *Collector) WriteFile(path string) error {
	slog.Debug("metrics.WriteFile", "path", path)

	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}

	return nil
}
