package hook

import (
	"errors"
	"fmt"
)

// Registry errors
var (
	ErrDispatcherExists   = errors.New("dispatcher already registered with this name")
	ErrDispatcherNotFound = errors.New("dispatcher not found")
	ErrInvalidFullName    = errors.New("invalid full name format, expected: <dispatcher_name>://<event_name>")
)

// PanicError is returned from Apply when a callback panics and recovery is enabled.
// The chain stops at the panicking callback exactly as it would on a returned error.
type PanicError struct {
	Event    string
	Priority Priority
	Value    any
	Stack    []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("hook: callback for %q at priority %v panicked: %v", e.Event, e.Priority, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanic checks if an error came from a recovered callback panic.
func IsPanic(err error) bool {
	var panicErr *PanicError
	return errors.As(err, &panicErr)
}
