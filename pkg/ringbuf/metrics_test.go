package ringbuf

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/c360/ringbuf/errors"
	"github.com/c360/ringbuf/metric"
)

func TestRingMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	rb, _ := newIntRing(t, 4, WithMetrics(registry, "ints"))
	require.NotNil(t, rb.rec.metrics)

	require.NoError(t, rb.Push(1))
	require.NoError(t, rb.Push(2))
	require.NoError(t, rb.Push(3))
	_, err := rb.Pop()
	require.NoError(t, err)

	m := rb.rec.metrics
	assert.Equal(t, 3.0, testutil.ToFloat64(m.enqueues))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dequeues))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.size))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.utilization))

	rb.Reset()
	_, _ = rb.Pop()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.size))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejectedEmpty))
}

func TestBytesMetricsRejectedFull(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	rb, err := NewBytes(make([]byte, 2), 2, 1, WithMetrics(registry, "chars"))
	require.NoError(t, err)

	require.NoError(t, rb.Enqueue([]byte("a")))
	require.NoError(t, rb.Enqueue([]byte("b")))
	_ = rb.Enqueue([]byte("c"))

	assert.Equal(t, 1.0, testutil.ToFloat64(rb.rec.metrics.rejectedFull))
	assert.Equal(t, 1.0, testutil.ToFloat64(rb.rec.metrics.utilization))
}

func TestMetricsGathered(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	_, _ = newIntRing(t, 2, WithMetrics(registry, "gathered"))

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"ringbuf_buffer_enqueues_total",
		"ringbuf_buffer_dequeues_total",
		"ringbuf_buffer_rejected_full_total",
		"ringbuf_buffer_rejected_empty_total",
		"ringbuf_buffer_size",
		"ringbuf_buffer_utilization",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestMetricsDuplicateNameRollsBack(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	_, _ = newIntRing(t, 2, WithMetrics(registry, "dup"))

	rb, err := New(make([]int, 2), 2, WithMetrics(registry, "dup"))
	require.Error(t, err)
	assert.Nil(t, rb)
	assert.True(t, cerrors.IsInvalid(err))

	// A distinct name still registers cleanly after the failed attempt.
	_, err = New(make([]int, 2), 2, WithMetrics(registry, "other"))
	assert.NoError(t, err)
}

func TestWithMetricsIgnoredWithoutName(t *testing.T) {
	rb, _ := newIntRing(t, 2, WithMetrics(metric.NewMetricsRegistry(), ""))
	assert.Nil(t, rb.rec.metrics)

	rb, _ = newIntRing(t, 2, WithMetrics(nil, "x"))
	assert.Nil(t, rb.rec.metrics)
}
