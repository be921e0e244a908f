// Package errors augments the standard errors
// provided by fmt (https://golang.org/src/fmt/errors.go)
// with sentinel errors that can wrap a cause without losing their identity,
// and with helpers to aggregate the failures of concurrent work.
package errors

import (
	stderr "errors"

	"go.uber.org/multierr"
)

var _ error = New("")

// New sentinel Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error augments the standard error interface with a Wrap method.
//
// Wrapping a sentinel yields a new error which still matches the sentinel
// with Is: sentinels declared at package level are never mutated.
type Error struct {
	msg      string
	err      error
	sentinel *Error
}

// Error message
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error
func (e *Error) Wrap(err error) *Error {
	root := e
	if e.sentinel != nil {
		root = e.sentinel
	}
	return &Error{msg: e.msg, err: err, sentinel: root}
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || (e.sentinel != nil && e.sentinel == t)
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	if stderr.Is(err, target) {
		return true
	}
	// aggregated errors are matched member by member
	for _, member := range multierr.Errors(err) {
		if member != err && stderr.Is(member, target) {
			return true
		}
	}
	return false
}

// Append combines two errors, either of which may be nil.
// (a shortcut to multierr.Append)
func Append(left, right error) error {
	return multierr.Append(left, right)
}

// Errors returns the individual errors of an aggregate, or a single-element slice.
// (a shortcut to multierr.Errors)
func Errors(err error) []error {
	return multierr.Errors(err)
}
