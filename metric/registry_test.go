package metric

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/ringbuf/errors"
)

func gatheredNames(t *testing.T, registry *MetricsRegistry) map[string]bool {
	t.Helper()

	metricFamilies, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(metricFamilies))
	for _, mf := range metricFamilies {
		names[mf.GetName()] = true
	}
	return names
}

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.Same(t, registry.Metrics, registry.CoreMetrics())

	// Runtime collectors are registered up front
	assert.True(t, gatheredNames(t, registry)["go_goroutines"])
}

func TestMetricsRegistry_RegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "A test counter",
	})

	err := registry.RegisterCounter("test-buffer", "test_counter", counter)
	require.NoError(t, err)

	counter.Inc()

	assert.True(t, gatheredNames(t, registry)["test_counter"], "Counter should be registered in Prometheus registry")
	assert.Equal(t, 1.0, testutil.ToFloat64(counter))
}

func TestMetricsRegistry_RegisterGauge(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "A test gauge",
	})

	err := registry.RegisterGauge("test-buffer", "test_gauge", gauge)
	require.NoError(t, err)

	gauge.Set(42.0)

	assert.True(t, gatheredNames(t, registry)["test_gauge"], "Gauge should be registered in Prometheus registry")
}

func TestMetricsRegistry_RegisterVectors(t *testing.T) {
	registry := NewMetricsRegistry()

	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_counter_vec",
		Help: "A test counter vector",
	}, []string{"op"})
	histogramVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_histogram_vec",
		Help:    "A test histogram vector",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	require.NoError(t, registry.RegisterCounterVec("test-buffer", "test_counter_vec", counterVec))
	require.NoError(t, registry.RegisterHistogramVec("test-buffer", "test_histogram_vec", histogramVec))

	counterVec.WithLabelValues("enqueue").Inc()
	histogramVec.WithLabelValues("enqueue").Observe(0.5)

	names := gatheredNames(t, registry)
	assert.True(t, names["test_counter_vec"])
	assert.True(t, names["test_histogram_vec"])
}

func TestMetricsRegistry_PreventDuplicateRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	newCounter := func() prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duplicate_counter",
			Help: "First counter", // Same help to avoid Prometheus validation error
		})
	}

	require.NoError(t, registry.RegisterCounter("buffer1", "duplicate_counter", newCounter()))

	t.Run("same key", func(t *testing.T) {
		err := registry.RegisterCounter("buffer1", "duplicate_counter", newCounter())
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
		assert.Contains(t, err.Error(), "duplicate metric registration")
	})

	t.Run("prometheus conflict", func(t *testing.T) {
		err := registry.RegisterCounter("buffer2", "duplicate_counter", newCounter())
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
		assert.Contains(t, err.Error(), "prometheus conflict")
	})
}

func TestMetricsRegistry_UnregisterMetric(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unregister_counter",
		Help: "A counter to unregister",
	})

	require.NoError(t, registry.RegisterCounter("test-buffer", "unregister_counter", counter))
	assert.True(t, gatheredNames(t, registry)["unregister_counter"])

	assert.True(t, registry.Unregister("test-buffer", "unregister_counter"))
	assert.False(t, gatheredNames(t, registry)["unregister_counter"])

	// Second unregister finds nothing
	assert.False(t, registry.Unregister("test-buffer", "unregister_counter"))

	// Key is free again
	require.NoError(t, registry.RegisterCounter("test-buffer", "unregister_counter", counter))
}

func TestMetricsRegistry_ThreadSafety(t *testing.T) {
	registry := NewMetricsRegistry()

	var wg sync.WaitGroup
	numGoroutines := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			counter := prometheus.NewCounter(prometheus.CounterOpts{
				Name: fmt.Sprintf("concurrent_counter_%d", id),
				Help: "A concurrent counter",
			})

			err := registry.RegisterCounter("concurrent-buffer",
				fmt.Sprintf("concurrent_counter_%d", id), counter)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	counterCount := 0
	for name := range gatheredNames(t, registry) {
		if strings.HasPrefix(name, "concurrent_counter_") {
			counterCount++
		}
	}

	assert.Equal(t, numGoroutines, counterCount,
		"All concurrent counters should be registered")
}

func TestMetricsRegistrar_Interface(t *testing.T) {
	var registrar MetricsRegistrar = NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interface_counter",
		Help: "Counter registered through interface",
	})

	require.NoError(t, registrar.RegisterCounter("interface-buffer", "interface_counter", counter))
}

func TestCoreMetrics_RecordMethods(t *testing.T) {
	registry := NewMetricsRegistry()
	core := registry.CoreMetrics()

	core.RecordScenarioRun("char", true)
	core.RecordScenarioRun("char", true)
	core.RecordScenarioRun("int", false)
	core.RecordScenarioDuration("char", 150*time.Microsecond)
	core.RecordError("int", "transient")

	assert.Equal(t, 2.0, testutil.ToFloat64(core.ScenarioRuns.WithLabelValues("char", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(core.ScenarioRuns.WithLabelValues("int", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(core.ErrorsTotal.WithLabelValues("int", "transient")))

	names := gatheredNames(t, registry)
	for _, expected := range []string{
		"ringbuf_scenario_runs_total",
		"ringbuf_scenario_duration_seconds",
		"ringbuf_errors_total",
	} {
		assert.True(t, names[expected], "expected core metric %s", expected)
	}
}
