// Package metric provides Prometheus-based metrics collection and an HTTP server
// for ringbuf observability.
//
// The package offers a registry holding a few process-level metrics (scenario runs,
// scenario durations, classified errors) plus any buffer-specific collectors that
// ring buffers register when built with ringbuf.WithMetrics. The Server type exposes
// the registry in Prometheus format.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Run(ctx); err != nil {
//	        log.Printf("Metrics server error: %v", err)
//	    }
//	}()
//
//	rb, err := ringbuf.New(storage, len(storage), ringbuf.WithMetrics(registry, "ingest"))
//
// Metrics are exposed at http://localhost:9090/metrics and a health check at
// http://localhost:9090/health.
//
// # Registration
//
// Collectors are keyed by "owner.metric". Registering the same key twice returns a
// classified Invalid error, as does a Prometheus descriptor conflict. Unregister
// removes a collector so a buffer name can be reused:
//
//	registry.Unregister("ingest", "buffer_size")
//
// # Thread Safety
//
// MetricsRegistry is safe for concurrent use. Prometheus collectors are atomic, so a
// scrape may run while a single-owner ring buffer keeps mutating on its own goroutine.
package metric
