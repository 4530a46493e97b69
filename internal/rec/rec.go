// Package rec turns recovered panics into errors.
package rec

import (
	"fmt"
	"runtime/debug"
)

// Panic converts a value returned by recover into an error carrying the stack.
// It returns nil for a nil value.
func Panic(r any) error {
	switch t := r.(type) {
	case nil:
		return nil
	case error:
		return fmt.Errorf("recovered panic: %w\n%s", t, debug.Stack())
	default:
		return fmt.Errorf("recovered panic: %v\n%s", r, debug.Stack())
	}
}

// Error recovers a panic and assigns it to the provided error.
// It must be deferred directly.
func Error(err *error) {
	if r := Panic(recover()); r != nil {
		*err = r
	}
}

// Wrap recovers a panic, or takes the error already assigned, and wraps it
// with the provided format and arguments. The error is appended to the
// arguments, so the format should end with %w.
func Wrap(err *error, format string, a ...any) {
	if r := Panic(recover()); r != nil {
		*err = fmt.Errorf(format, append(a, r)...)
	} else if *err != nil {
		*err = fmt.Errorf(format, append(a, *err)...)
	}
}
