package ringbuf

import (
	"github.com/c360/ringbuf/errors"
)

// Sentinel errors returned (wrapped) by buffer operations. Use errors.Is to test.
var (
	ErrFull            = errors.ErrFull
	ErrEmpty           = errors.ErrEmpty
	ErrInvalidArgument = errors.ErrInvalidArgument
)

// Buffer is the element-type independent view shared by Ring and Bytes.
type Buffer interface {
	// Len returns the current number of elements in the buffer.
	Len() int

	// Cap returns the maximum number of elements the buffer can hold.
	Cap() int

	// ElemSize returns the size of one element in bytes.
	ElemSize() int

	// IsFull returns true if the buffer is at capacity.
	IsFull() bool

	// IsEmpty returns true if the buffer contains no elements.
	IsEmpty() bool

	// Reset drops every element.
	Reset()

	// State returns a snapshot of the index bookkeeping.
	State() State

	// Stats returns buffer statistics (always available for observability).
	Stats() *Statistics
}

var (
	_ Buffer = (*Ring[int])(nil)
	_ Buffer = (*Bytes)(nil)
)
