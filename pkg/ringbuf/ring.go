package ringbuf

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/c360/ringbuf/errors"
)

// CopyFunc transfers one element from src into dst. Install one with SetCopyFunc
// when plain assignment is not the right transfer for T, for example when a field
// must be truncated or deep-copied.
type CopyFunc[T any] func(dst, src *T)

// Ring is a fixed-capacity FIFO over caller-owned storage.
//
// A Ring never allocates, grows or frees its storage; the caller keeps ownership of
// the slice and must not use it for anything else while the Ring is in use. A Ring
// is meant for a single owner and is not safe for concurrent mutation.
type Ring[T any] struct {
	storage  []T
	cur      cursor
	copyFn   CopyFunc[T]
	observer Observer[T]
	opts     *bufferOptions
	rec      recorder
}

// New binds a Ring to the first capacity slots of storage.
//
// It fails with ErrInvalidArgument when storage is nil, capacity is not positive, or
// storage holds fewer than capacity elements. Storage contents are left untouched.
func New[T any](storage []T, capacity int, options ...Option) (*Ring[T], error) {
	if storage == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Ring", "New", "nil storage")
	}
	if capacity <= 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: capacity %d must be positive", errors.ErrInvalidArgument, capacity),
			"Ring", "New", "bind storage")
	}
	if len(storage) < capacity {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: storage holds %d elements, capacity is %d", errors.ErrInvalidArgument, len(storage), capacity),
			"Ring", "New", "bind storage")
	}

	opts := applyOptions(options...)
	rec, err := newRecorder(opts)
	if err != nil {
		return nil, errors.Wrap(err, "Ring", "New", "metrics registration")
	}

	r := &Ring[T]{
		storage: storage[:capacity:capacity],
		cur:     cursor{capacity: capacity},
		opts:    opts,
		rec:     rec,
	}

	opts.logger.Debug("ring buffer bound", "capacity", capacity, "elem_size", r.ElemSize(),
		"clear_on_remove", opts.clearOnRemove, "metrics", opts.metricsName)

	return r, nil
}

// SetCopyFunc installs the element transfer used by Enqueue, Dequeue and Peek.
// A nil fn restores plain assignment.
func (r *Ring[T]) SetCopyFunc(fn CopyFunc[T]) {
	r.copyFn = fn
}

// SetPrintFunc installs a renderer and logs every transition at debug level with it.
// It replaces any observer set with SetObserver. A nil fn turns diagnostics off.
func (r *Ring[T]) SetPrintFunc(fn PrintFunc[T]) {
	if fn == nil {
		r.observer = nil
		return
	}
	r.observer = printObserver(r.opts.logger, fn)
}

// SetObserver installs a callback invoked after every successful mutation.
// A nil observer removes it.
func (r *Ring[T]) SetObserver(observer Observer[T]) {
	r.observer = observer
}

func (r *Ring[T]) transfer(dst, src *T) {
	if r.copyFn != nil {
		r.copyFn(dst, src)
		return
	}
	*dst = *src
}

func (r *Ring[T]) notify(op Op, elem *T) {
	if r.observer == nil {
		return
	}
	ev := Event[T]{Op: op, State: r.State(), Contents: r.All()}
	if elem != nil {
		ev.Elem = *elem
		ev.HasElem = true
	}
	r.observer(ev)
}

// Enqueue copies *elem into the tail slot.
//
// A nil elem is accepted as a no-op and returns nil. A full buffer returns ErrFull
// and is left unchanged.
func (r *Ring[T]) Enqueue(elem *T) error {
	if elem == nil {
		r.rec.nilEnqueue()
		return nil
	}
	if r.cur.full() {
		r.rec.rejectedFull()
		return errors.WrapTransient(errors.ErrFull, "Ring", "Enqueue", "add tail")
	}

	r.transfer(&r.storage[r.cur.tail], elem)
	r.cur.advanceTail()

	r.rec.enqueued(r.cur.count, r.cur.capacity)
	r.notify(OpEnqueue, elem)
	return nil
}

// Push enqueues v.
func (r *Ring[T]) Push(v T) error {
	return r.Enqueue(&v)
}

// Dequeue removes the head element, copying it into *out when out is non-nil.
// With a nil out the element is discarded. An empty buffer returns ErrEmpty and
// is left unchanged.
func (r *Ring[T]) Dequeue(out *T) error {
	if r.cur.empty() {
		r.rec.rejectedEmpty()
		return errors.WrapTransient(errors.ErrEmpty, "Ring", "Dequeue", "remove head")
	}

	slot := &r.storage[r.cur.head]
	if out != nil {
		r.transfer(out, slot)
	}
	if r.opts.clearOnRemove {
		var zero T
		*slot = zero
	}
	r.cur.advanceHead()

	r.rec.dequeued(r.cur.count, r.cur.capacity, out == nil)
	r.notify(OpDequeue, out)
	return nil
}

// Pop removes and returns the head element.
func (r *Ring[T]) Pop() (T, error) {
	var v T
	err := r.Dequeue(&v)
	return v, err
}

// Peek copies the head element into *out without removing it.
func (r *Ring[T]) Peek(out *T) error {
	if out == nil {
		return errors.WrapInvalid(errors.ErrInvalidArgument, "Ring", "Peek", "nil destination")
	}
	if r.cur.empty() {
		r.rec.rejectedEmpty()
		return errors.WrapTransient(errors.ErrEmpty, "Ring", "Peek", "read head")
	}

	r.transfer(out, &r.storage[r.cur.head])
	r.rec.peeked()
	return nil
}

// Reset drops every element. Occupied slots are zeroed when clear-on-remove is on.
func (r *Ring[T]) Reset() {
	if r.opts.clearOnRemove {
		var zero T
		for i := 0; i < r.cur.count; i++ {
			r.storage[r.cur.at(i)] = zero
		}
	}
	r.cur.reset()

	r.rec.reset(r.cur.capacity)
	r.notify(OpReset, nil)
}

// All yields the stored elements from head to tail. The buffer must not be
// mutated while iterating.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < r.cur.count; i++ {
			if !yield(r.storage[r.cur.at(i)]) {
				return
			}
		}
	}
}

// IsFull returns true if the buffer is at capacity.
func (r *Ring[T]) IsFull() bool {
	return r.cur.full()
}

// IsEmpty returns true if the buffer holds no elements.
func (r *Ring[T]) IsEmpty() bool {
	return r.cur.empty()
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int {
	return r.cur.count
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return r.cur.capacity
}

// ElemSize returns the in-memory size of one element in bytes.
func (r *Ring[T]) ElemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// State returns a snapshot of the index bookkeeping.
func (r *Ring[T]) State() State {
	return r.cur.state(r.ElemSize())
}

// Stats returns buffer statistics (always available for observability).
func (r *Ring[T]) Stats() *Statistics {
	return r.rec.stats
}
