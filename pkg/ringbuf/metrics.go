package ringbuf

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/ringbuf/metric"
)

// bufferMetrics holds Prometheus metrics for ring buffer operations.
type bufferMetrics struct {
	enqueues      prometheus.Counter
	dequeues      prometheus.Counter
	rejectedFull  prometheus.Counter
	rejectedEmpty prometheus.Counter

	size        prometheus.Gauge
	utilization prometheus.Gauge
}

func newCounter(name, buffer, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "ringbuf",
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"buffer": buffer},
		Help:        help,
	})
}

func newGauge(name, buffer, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "ringbuf",
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"buffer": buffer},
		Help:        help,
	})
}

// newBufferMetrics creates and registers buffer metrics with the provided registry.
// On failure every collector registered so far is removed again.
func newBufferMetrics(registry *metric.MetricsRegistry, name string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		enqueues:      newCounter("enqueues_total", name, "Total number of successful enqueues"),
		dequeues:      newCounter("dequeues_total", name, "Total number of successful dequeues"),
		rejectedFull:  newCounter("rejected_full_total", name, "Total number of enqueues refused because the buffer was full"),
		rejectedEmpty: newCounter("rejected_empty_total", name, "Total number of dequeues refused because the buffer was empty"),
		size:          newGauge("size", name, "Current number of elements in the buffer"),
		utilization:   newGauge("utilization", name, "Buffer utilization as a fraction (0.0 to 1.0)"),
	}

	counters := []struct {
		key string
		c   prometheus.Counter
	}{
		{"buffer_enqueues", m.enqueues},
		{"buffer_dequeues", m.dequeues},
		{"buffer_rejected_full", m.rejectedFull},
		{"buffer_rejected_empty", m.rejectedEmpty},
	}
	gauges := []struct {
		key string
		g   prometheus.Gauge
	}{
		{"buffer_size", m.size},
		{"buffer_utilization", m.utilization},
	}

	var registered []string
	rollback := func() {
		for _, key := range registered {
			registry.Unregister(name, key)
		}
	}

	for _, c := range counters {
		if err := registry.RegisterCounter(name, c.key, c.c); err != nil {
			rollback()
			return nil, err
		}
		registered = append(registered, c.key)
	}
	for _, g := range gauges {
		if err := registry.RegisterGauge(name, g.key, g.g); err != nil {
			rollback()
			return nil, err
		}
		registered = append(registered, g.key)
	}

	return m, nil
}

// updateSize sets the current buffer size and utilization.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.utilization.Set(float64(size) / float64(capacity))
}

// recorder feeds one operation outcome into the always-on statistics and,
// when enabled, the Prometheus metrics.
type recorder struct {
	stats   *Statistics
	metrics *bufferMetrics
}

func (r recorder) enqueued(size, capacity int) {
	r.stats.Enqueue()
	r.stats.UpdateSize(int64(size))
	if r.metrics != nil {
		r.metrics.enqueues.Inc()
		r.metrics.updateSize(size, capacity)
	}
}

func (r recorder) dequeued(size, capacity int, discarded bool) {
	r.stats.Dequeue()
	if discarded {
		r.stats.Discard()
	}
	r.stats.UpdateSize(int64(size))
	if r.metrics != nil {
		r.metrics.dequeues.Inc()
		r.metrics.updateSize(size, capacity)
	}
}

func (r recorder) peeked() {
	r.stats.Peek()
}

func (r recorder) rejectedFull() {
	r.stats.RejectFull()
	if r.metrics != nil {
		r.metrics.rejectedFull.Inc()
	}
}

func (r recorder) rejectedEmpty() {
	r.stats.RejectEmpty()
	if r.metrics != nil {
		r.metrics.rejectedEmpty.Inc()
	}
}

func (r recorder) nilEnqueue() {
	r.stats.NilEnqueue()
}

func (r recorder) reset(capacity int) {
	r.stats.UpdateSize(0)
	if r.metrics != nil {
		r.metrics.updateSize(0, capacity)
	}
}

// newRecorder builds the statistics/metrics pair for a buffer from its options.
func newRecorder(opts *bufferOptions) (recorder, error) {
	rec := recorder{stats: NewStatistics()}
	if opts.metricsReg != nil {
		m, err := newBufferMetrics(opts.metricsReg, opts.metricsName)
		if err != nil {
			return recorder{}, err
		}
		rec.metrics = m
	}
	return rec, nil
}
