package ringbuf

import (
	"fmt"
	"iter"

	"github.com/c360/ringbuf/errors"
)

// ByteCopyFunc transfers one element of exactly elemSize bytes from src into dst.
type ByteCopyFunc func(dst, src []byte)

// Bytes is a fixed-capacity FIFO of opaque, fixed-size byte elements packed into a
// caller-owned byte slice. Slot i occupies storage[i*elemSize : (i+1)*elemSize].
//
// Like Ring, Bytes never allocates on the enqueue/dequeue path and is meant for a
// single owner.
type Bytes struct {
	storage  []byte
	elemSize int
	cur      cursor
	copyFn   ByteCopyFunc
	observer Observer[[]byte]
	opts     *bufferOptions
	rec      recorder
}

// NewBytes binds a Bytes buffer of capacity elements of elemSize bytes each.
//
// It fails with ErrInvalidArgument when storage is nil, capacity or elemSize is not
// positive, or storage is shorter than capacity*elemSize bytes.
func NewBytes(storage []byte, capacity, elemSize int, options ...Option) (*Bytes, error) {
	if storage == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Bytes", "New", "nil storage")
	}
	if capacity <= 0 || elemSize <= 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: capacity %d and element size %d must be positive",
				errors.ErrInvalidArgument, capacity, elemSize),
			"Bytes", "New", "bind storage")
	}
	if len(storage)/elemSize < capacity {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: storage is %d bytes, need %d elements of %d bytes",
				errors.ErrInvalidArgument, len(storage), capacity, elemSize),
			"Bytes", "New", "bind storage")
	}

	opts := applyOptions(options...)
	rec, err := newRecorder(opts)
	if err != nil {
		return nil, errors.Wrap(err, "Bytes", "New", "metrics registration")
	}

	size := capacity * elemSize
	b := &Bytes{
		storage:  storage[:size:size],
		elemSize: elemSize,
		cur:      cursor{capacity: capacity},
		opts:     opts,
		rec:      rec,
	}

	opts.logger.Debug("byte ring buffer bound", "capacity", capacity, "elem_size", elemSize,
		"clear_on_remove", opts.clearOnRemove, "metrics", opts.metricsName)

	return b, nil
}

// SetCopyFunc installs the element transfer used by Enqueue, Dequeue and Peek.
// Both slices passed to fn are exactly elemSize bytes long. A nil fn restores copy().
func (b *Bytes) SetCopyFunc(fn ByteCopyFunc) {
	b.copyFn = fn
}

// SetPrintFunc installs a renderer and logs every transition at debug level with it.
// It replaces any observer set with SetObserver. A nil fn turns diagnostics off.
func (b *Bytes) SetPrintFunc(fn PrintFunc[[]byte]) {
	if fn == nil {
		b.observer = nil
		return
	}
	b.observer = printObserver(b.opts.logger, fn)
}

// SetObserver installs a callback invoked after every successful mutation.
// Element slices in the event alias caller or buffer memory and are only valid
// during the callback.
func (b *Bytes) SetObserver(observer Observer[[]byte]) {
	b.observer = observer
}

func (b *Bytes) slot(i int) []byte {
	off := i * b.elemSize
	return b.storage[off : off+b.elemSize : off+b.elemSize]
}

func (b *Bytes) transfer(dst, src []byte) {
	if b.copyFn != nil {
		b.copyFn(dst, src)
		return
	}
	copy(dst, src)
}

func (b *Bytes) notify(op Op, elem []byte) {
	if b.observer == nil {
		return
	}
	b.observer(Event[[]byte]{
		Op:       op,
		Elem:     elem,
		HasElem:  elem != nil,
		State:    b.State(),
		Contents: b.All(),
	})
}

// Enqueue copies the first elemSize bytes of elem into the tail slot.
//
// A nil elem is accepted as a no-op and returns nil. An elem shorter than elemSize
// returns ErrInvalidArgument; a full buffer returns ErrFull. Neither changes state.
func (b *Bytes) Enqueue(elem []byte) error {
	if elem == nil {
		b.rec.nilEnqueue()
		return nil
	}
	if len(elem) < b.elemSize {
		return errors.WrapInvalid(
			fmt.Errorf("%w: element is %d bytes, want %d", errors.ErrInvalidArgument, len(elem), b.elemSize),
			"Bytes", "Enqueue", "add tail")
	}
	if b.cur.full() {
		b.rec.rejectedFull()
		return errors.WrapTransient(errors.ErrFull, "Bytes", "Enqueue", "add tail")
	}

	src := elem[:b.elemSize]
	b.transfer(b.slot(b.cur.tail), src)
	b.cur.advanceTail()

	b.rec.enqueued(b.cur.count, b.cur.capacity)
	b.notify(OpEnqueue, src)
	return nil
}

// Dequeue removes the head element, copying it into the first elemSize bytes of
// out when out is non-nil. With a nil out the element is discarded.
//
// An empty buffer returns ErrEmpty; an out shorter than elemSize returns
// ErrInvalidArgument. Neither changes state.
func (b *Bytes) Dequeue(out []byte) error {
	if b.cur.empty() {
		b.rec.rejectedEmpty()
		return errors.WrapTransient(errors.ErrEmpty, "Bytes", "Dequeue", "remove head")
	}
	if out != nil && len(out) < b.elemSize {
		return errors.WrapInvalid(
			fmt.Errorf("%w: destination is %d bytes, want %d", errors.ErrInvalidArgument, len(out), b.elemSize),
			"Bytes", "Dequeue", "remove head")
	}

	slot := b.slot(b.cur.head)
	var dst []byte
	if out != nil {
		dst = out[:b.elemSize]
		b.transfer(dst, slot)
	}
	if b.opts.clearOnRemove {
		clear(slot)
	}
	b.cur.advanceHead()

	b.rec.dequeued(b.cur.count, b.cur.capacity, out == nil)
	b.notify(OpDequeue, dst)
	return nil
}

// Peek copies the head element into out without removing it.
func (b *Bytes) Peek(out []byte) error {
	if len(out) < b.elemSize {
		return errors.WrapInvalid(
			fmt.Errorf("%w: destination is %d bytes, want %d", errors.ErrInvalidArgument, len(out), b.elemSize),
			"Bytes", "Peek", "read head")
	}
	if b.cur.empty() {
		b.rec.rejectedEmpty()
		return errors.WrapTransient(errors.ErrEmpty, "Bytes", "Peek", "read head")
	}

	b.transfer(out[:b.elemSize], b.slot(b.cur.head))
	b.rec.peeked()
	return nil
}

// Reset drops every element. Occupied slots are zeroed when clear-on-remove is on.
func (b *Bytes) Reset() {
	if b.opts.clearOnRemove {
		for i := 0; i < b.cur.count; i++ {
			clear(b.slot(b.cur.at(i)))
		}
	}
	b.cur.reset()

	b.rec.reset(b.cur.capacity)
	b.notify(OpReset, nil)
}

// All yields views of the stored elements from head to tail. The views alias the
// backing storage; copy them to keep them past the next mutation.
func (b *Bytes) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for i := 0; i < b.cur.count; i++ {
			if !yield(b.slot(b.cur.at(i))) {
				return
			}
		}
	}
}

// IsFull returns true if the buffer is at capacity.
func (b *Bytes) IsFull() bool {
	return b.cur.full()
}

// IsEmpty returns true if the buffer holds no elements.
func (b *Bytes) IsEmpty() bool {
	return b.cur.empty()
}

// Len returns the number of stored elements.
func (b *Bytes) Len() int {
	return b.cur.count
}

// Cap returns the fixed capacity in elements.
func (b *Bytes) Cap() int {
	return b.cur.capacity
}

// ElemSize returns the size of one element in bytes.
func (b *Bytes) ElemSize() int {
	return b.elemSize
}

// State returns a snapshot of the index bookkeeping.
func (b *Bytes) State() State {
	return b.cur.state(b.elemSize)
}

// Stats returns buffer statistics (always available for observability).
func (b *Bytes) Stats() *Statistics {
	return b.rec.stats
}

// HexDump renders the whole bound storage, occupied or not, as space-separated hex bytes.
func (b *Bytes) HexDump() string {
	return fmt.Sprintf("% x", b.storage)
}
