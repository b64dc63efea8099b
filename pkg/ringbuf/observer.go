package ringbuf

import (
	"context"
	"iter"
	"log/slog"
	"strings"
)

// Op identifies the state transition reported to an Observer.
type Op int

const (
	// OpEnqueue is reported after an element was added at the tail.
	OpEnqueue Op = iota
	// OpDequeue is reported after an element was removed from the head.
	OpDequeue
	// OpReset is reported after all elements were dropped.
	OpReset
)

// String returns a human-readable representation of the operation.
func (o Op) String() string {
	switch o {
	case OpEnqueue:
		return "enqueue"
	case OpDequeue:
		return "dequeue"
	case OpReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes a completed state transition.
//
// For OpEnqueue, Elem is the element passed in. For OpDequeue, Elem is the element
// copied out and HasElem is false when the caller discarded it. Contents walks the
// buffer head to tail and is only valid during the callback.
type Event[T any] struct {
	Op       Op
	Elem     T
	HasElem  bool
	State    State
	Contents iter.Seq[T]
}

// Observer is called synchronously after every successful mutation.
// It must not mutate the buffer it observes.
type Observer[T any] func(ev Event[T])

// PrintFunc renders one element for diagnostics.
type PrintFunc[T any] func(elem T) string

// printObserver logs each transition at debug level: the element involved and the
// full contents head to tail.
func printObserver[T any](logger *slog.Logger, render PrintFunc[T]) Observer[T] {
	return func(ev Event[T]) {
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			return
		}

		attrs := []any{"op", ev.Op.String(), "count", ev.State.Count}
		if ev.HasElem {
			attrs = append(attrs, "elem", render(ev.Elem))
		}
		attrs = append(attrs, "contents", renderContents(ev.Contents, render))

		logger.Debug("ring buffer "+ev.Op.String(), attrs...)
	}
}

// renderContents joins the rendered elements with spaces, or "(empty)".
func renderContents[T any](contents iter.Seq[T], render PrintFunc[T]) string {
	var sb strings.Builder
	n := 0
	for elem := range contents {
		if n > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(render(elem))
		n++
	}
	if n == 0 {
		return "(empty)"
	}
	return sb.String()
}
