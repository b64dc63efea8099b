// Package ringbuf provides fixed-capacity FIFO ring buffers over caller-owned storage,
// with always-on statistics and optional Prometheus metrics.
//
// # Overview
//
// A ring buffer binds to memory the caller already owns and never allocates, grows or
// frees it. Two variants share the same index bookkeeping:
//
//   - Ring[T]: typed elements in a []T
//   - Bytes: opaque elements of a fixed byte size packed into a []byte
//
// Enqueue writes at the tail, Dequeue reads at the head, and both wrap around at the
// capacity. Neither ever overwrites: a full buffer refuses Enqueue with ErrFull and an
// empty buffer refuses Dequeue with ErrEmpty. A refused operation leaves the buffer
// exactly as it was.
//
// # Quick Start
//
//	storage := make([]int32, 4)
//	rb, err := ringbuf.New(storage, 4)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_ = rb.Push(7)
//	v, err := rb.Pop()
//
// Fixed-size byte records:
//
//	storage := make([]byte, 8*16)
//	rb, _ := ringbuf.NewBytes(storage, 8, 16)
//	_ = rb.Enqueue(record[:16])
//
// # Hooks
//
// SetCopyFunc replaces the element transfer, for example to truncate a field while
// copying. SetPrintFunc renders elements into debug logs after each mutation, and
// SetObserver receives the raw Event instead.
//
// # Errors
//
// Errors are classified with the errors package: ErrFull and ErrEmpty are transient
// (retry after the other side made progress), bad arguments are invalid.
//
//	if errors.Is(err, ringbuf.ErrFull) {
//		// back off
//	}
//
// # Observability
//
// Statistics are always collected (rb.Stats()). WithMetrics additionally exports them
// as Prometheus counters and gauges labelled with the buffer name.
//
// # Thread Safety
//
// Buffers are single-owner and not safe for concurrent mutation. Statistics may be
// read from other goroutines.
package ringbuf
