package health

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		name      string
		status    Status
		healthy   bool
		degraded  bool
		unhealthy bool
	}{
		{"healthy", NewHealthy("a", "ok"), true, false, false},
		{"degraded", NewDegraded("a", "slow"), false, true, false},
		{"unhealthy", NewUnhealthy("a", "down"), false, false, true},
		{"empty", Status{}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.healthy, tt.status.IsHealthy())
			assert.Equal(t, tt.degraded, tt.status.IsDegraded())
			assert.Equal(t, tt.unhealthy, tt.status.IsUnhealthy())
			assert.Equal(t, tt.healthy, tt.status.Healthy)
		})
	}
}

func TestFromError(t *testing.T) {
	ok := FromError("char", nil, "passed")
	assert.True(t, ok.IsHealthy())
	assert.Equal(t, "passed", ok.Message)

	failed := FromError("char", errors.New("load /etc/ringdemo/cfg.yaml from http://host:9090/x failed"), "passed")
	assert.True(t, failed.IsUnhealthy())
	assert.NotContains(t, failed.Message, "/etc/ringdemo")
	assert.NotContains(t, failed.Message, "http://")
	assert.Contains(t, failed.Message, "[URL]")
	assert.Contains(t, failed.Message, "[PATH]")
}

func TestSanitizeErrorMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"ring buffer full", "ring buffer full"},
		{"dial 10.0.0.1 refused", "dial [IP] refused"},
		{"bind localhost:9090 failed", "bind localhost[PORT] failed"},
		{"auth token=abc123 rejected", "auth [REDACTED] rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeErrorMessage(tt.in))
		})
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		subs []Status
		want string
	}{
		{"none", nil, StateHealthy},
		{"all healthy", []Status{NewHealthy("a", ""), NewHealthy("b", "")}, StateHealthy},
		{"one degraded", []Status{NewHealthy("a", ""), NewDegraded("b", "")}, StateDegraded},
		{"unhealthy wins", []Status{NewDegraded("a", ""), NewUnhealthy("b", "")}, StateUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate("ringdemo", tt.subs)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, "ringdemo", got.Component)
			assert.Len(t, got.SubStatuses, len(tt.subs))
		})
	}
}

func TestMonitor(t *testing.T) {
	m := NewMonitor()
	assert.Equal(t, 0, m.Count())

	m.Update("record", Status{Status: StateHealthy, Component: "wrong"})
	m.Update("char", NewUnhealthy("char", "mismatch"))

	got, ok := m.Get("record")
	require.True(t, ok)
	assert.Equal(t, "record", got.Component)
	assert.False(t, got.Timestamp.IsZero())

	_, ok = m.Get("int")
	assert.False(t, ok)

	agg := m.AggregateHealth("ringdemo")
	assert.True(t, agg.IsUnhealthy())
	require.Len(t, agg.SubStatuses, 2)
	assert.Equal(t, "char", agg.SubStatuses[0].Component)
	assert.Equal(t, "record", agg.SubStatuses[1].Component)
}

func TestMonitorConcurrentUpdates(t *testing.T) {
	m := NewMonitor()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Update(fmt.Sprintf("s%d", i%5), NewHealthy("", "ok"))
			_ = m.AggregateHealth("ringdemo")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, m.Count())
}
