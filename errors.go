package futures

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrLoopBusy is returned when RunToCompletion or Step is called from
	// within a task executing on the same loop.
	ErrLoopBusy = errors.New("futures: loop is already running")

	// ErrLoopStopped is returned by RunToCompletion when the supplied
	// context is cancelled before the loop drains.
	ErrLoopStopped = errors.New("futures: loop stopped before completion")
)

// TypeError indicates an argument failed its declared shape constraint:
// not a future where one is required, not a function (or nil) where one is
// required, not an array, or an array containing a non-future element.
//
// TypeError is raised synchronously, before any state mutation, so a failed
// call has zero side effects.
type TypeError struct {
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Message == "" {
		return "futures: type error"
	}
	return "futures: " + e.Message
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *TypeError) Unwrap() error {
	return e.Cause
}

// FutureStateError indicates a future argument was not in the state required
// for the requested operation, e.g. running a future that is not Inert, or
// cancelling a future that is Inert or Staged.
//
// FutureStateError is raised synchronously, before any state mutation, so a
// failed call has zero side effects.
type FutureStateError struct {
	// Op names the operation that was refused (e.g. "run", "cancel").
	Op string
	// State is the state the future was observed in.
	State State
}

// Error implements the error interface.
func (e *FutureStateError) Error() string {
	return fmt.Sprintf("futures: cannot %s future in state %s", e.Op, e.State)
}

// PanicError wraps a value recovered from a panicking user-supplied function.
// It is used as the rejection reason when a combinator callback panics.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("futures: panic in callback: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error type.
// This enables use with [errors.Is] and [errors.As] for error matching
// through the cause chain.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Raised is an error carrying a language-level [Value]. Evaluator callables
// return it to signal that the scripted function raised a value rather than
// failing internally; the carried value becomes the rejection payload when a
// combinator propagates the failure.
type Raised struct {
	Value Value
}

// Error implements the error interface.
func (e *Raised) Error() string {
	return "futures: raised " + e.Value.String()
}

// rejectionValue maps a callable error onto the settlement payload used when
// a combinator turns the failure into a rejection. A [Raised] error carries
// the payload verbatim; anything else is represented by its message.
func rejectionValue(err error) Value {
	var raised *Raised
	if errors.As(err, &raised) {
		return raised.Value
	}
	return Str(err.Error())
}

func newTypeError(format string, args ...any) *TypeError {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}

func newStateError(op string, state State) *FutureStateError {
	return &FutureStateError{Op: op, State: state}
}
