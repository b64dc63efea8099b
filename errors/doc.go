// Package errors provides standardized error handling patterns for ringbuf components.
//
// # Overview
//
// The errors package implements a three-class error classification system: Transient
// (the condition clears once state changes), Invalid (bad input, do not retry as-is),
// and Fatal (unrecoverable, stop processing).
//
// Ring buffer operations map onto the classes like this:
//
//   - ErrInvalidArgument: Invalid. Construction was given absent or inconsistent storage,
//     or an element slice is shorter than the element size.
//   - ErrFull: Transient. Enqueue found no free slot; dequeue or drop the element.
//   - ErrEmpty: Transient. Dequeue found nothing; wait for a producer or move on.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Ring", "Enqueue", "add tail")   // For recoverable conditions
//	errors.WrapInvalid(err, "Ring", "New", "bind storage")      // For validation errors
//	errors.WrapFatal(err, "Server", "Start", "listen")          // For unrecoverable errors
//
// The generic Wrap() function adds context without setting a class; classification of
// the wrapped sentinel still applies:
//
//	errors.Wrap(errors.ErrFull, "Demo", "run", "enqueue")  // IsTransient == true
//
// # Integration with errors.As/Is
//
// All error types support standard library error inspection:
//
//	err := rb.Enqueue(&v)
//	if errors.Is(err, errors.ErrFull) {
//	    // drop or dequeue first
//	}
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("Component: %s, Operation: %s, Class: %s", ce.Component, ce.Operation, ce.Class)
//	}
//
// # Thread Safety
//
// Classification and wrapping are safe for concurrent use. Error variables are never
// mutated. A ClassifiedError may be shared across goroutines after creation.
package errors
