package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. Codes below 20 are reserved for this
// package.
var (
	// ErrNotFound is returned when requested data does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrModel is returned when a stored or serialized value cannot be
	// decoded or fails validation.
	ErrModel = Register(5, "invalid model")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an operation would bring stored data into
	// an invalid state.
	ErrState = Register(10, "invalid state")

	// ErrType is returned for an unsupported variant of a tagged value.
	ErrType = Register(11, "invalid type")

	// ErrInput is returned for malformed caller input.
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a counter cannot be advanced any further.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when a store operation fails.
	ErrDatabase = Register(17, "database")

	// ErrPanic is set only by Recover.
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error with a unique code. Registering a code
// twice panics, so call it only from package level variable declarations.
// Extensions declare their roots in their own code range.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// registry holds all registered roots by code. Code 1 is reserved for
// errors without a code, see Info.
var registry = map[uint32]*Error{
	internalCode: nil,
}

// Error is a root error. Every error returned by this module wraps exactly
// one root, which tells the caller the category of the failure and a code
// that is stable across releases.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }

// Code returns the registered code.
func (e Error) Code() uint32 { return e.code }

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Is returns true if err is this root or wraps it. A collection matches if
// any of its errors matches. A nil root matches only nil errors, including
// typed nil values.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNilErr(err)
	}
	for !isNilErr(err) {
		if err == kind {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, child := range u.Unpack() {
				if kind.Is(child) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// isNilErr is true for nil and for a nil pointer stored in an error
// interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	switch v := reflect.ValueOf(err); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}

// Wrap adds description to err. A stack trace is recorded at the innermost
// wrap only. Wrapping nil returns nil, so the result of a call can be
// wrapped without checking it first.
//
// Errors not wrapping a registered root are reported as internal by Info.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error { return e.parent }

// Recover turns a panic into an ErrPanic assigned to err. Use it with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is implemented by wrapping errors.
type causer interface {
	Cause() error
}

// unpacker is implemented by error collections.
type unpacker interface {
	Unpack() []error
}
