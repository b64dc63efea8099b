package ringbuf

import (
	"log/slog"

	"github.com/c360/ringbuf/metric"
)

// Option configures buffer behavior using the functional options pattern.
// The same options apply to Ring and Bytes.
type Option func(*bufferOptions)

// bufferOptions holds internal configuration for buffer instances.
// Stats are ALWAYS collected - they are not optional.
type bufferOptions struct {
	logger *slog.Logger

	// clearOnRemove zero-fills a slot once its element has been dequeued
	clearOnRemove bool

	// metricsReg is optional - if provided, buffer stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsName is used as the buffer label for Prometheus metrics
	metricsName string
}

// WithLogger sets the logger used for construction and print-hook diagnostics.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(opts *bufferOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithClearOnRemove controls whether a vacated slot is zero-filled on dequeue.
// Enabled by default so removed data does not linger in caller storage.
func WithClearOnRemove(enabled bool) Option {
	return func(opts *bufferOptions) {
		opts.clearOnRemove = enabled
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// If registry is nil or name is empty, this option is ignored.
func WithMetrics(registry *metric.MetricsRegistry, name string) Option {
	return func(opts *bufferOptions) {
		if registry != nil && name != "" {
			opts.metricsReg = registry
			opts.metricsName = name
		}
	}
}

// applyOptions applies functional options to create final buffer configuration.
func applyOptions(options ...Option) *bufferOptions {
	opts := &bufferOptions{
		logger:        slog.Default(),
		clearOnRemove: true,
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
