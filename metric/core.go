package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains process-level metrics that are not tied to a single buffer
type Metrics struct {
	ScenarioRuns     *prometheus.CounterVec
	ScenarioDuration *prometheus.HistogramVec
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		ScenarioRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ringbuf",
				Subsystem: "scenario",
				Name:      "runs_total",
				Help:      "Total number of scenario runs",
			},
			[]string{"scenario", "status"},
		),

		ScenarioDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ringbuf",
				Subsystem: "scenario",
				Name:      "duration_seconds",
				Help:      "Scenario run duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"scenario"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ringbuf",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by class",
			},
			[]string{"scenario", "class"},
		),
	}
}

// RecordScenarioRun increments the run counter for a scenario outcome
func (c *Metrics) RecordScenarioRun(scenario string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	c.ScenarioRuns.WithLabelValues(scenario, status).Inc()
}

// RecordScenarioDuration records how long a scenario took
func (c *Metrics) RecordScenarioDuration(scenario string, duration time.Duration) {
	c.ScenarioDuration.WithLabelValues(scenario).Observe(duration.Seconds())
}

// RecordError increments the error counter
func (c *Metrics) RecordError(scenario, class string) {
	c.ErrorsTotal.WithLabelValues(scenario, class).Inc()
}
