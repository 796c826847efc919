package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attributes err to a single field of a validated value. Nil err
// results in nil.
//
// Field names follow Go naming. Nested fields are joined with a dot, slice
// elements use their index, for example Admins.2 or Payload.Network.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{name: name, desc: description, parent: err}
}

// AppendField adds a field error to errs. Nil fieldErr leaves errs unchanged.
func AppendField(errs error, name string, fieldErr error) error {
	return Append(errs, Field(name, fieldErr, ""))
}

type fieldError struct {
	name   string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.name, e.desc, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.name, e.parent)
}

func (e *fieldError) Cause() error { return e.parent }

func (e *fieldError) Field() string { return e.name }

// FieldErrors collects all errors attributed to the field with given name,
// searching through wrapped errors and error collections.
func FieldErrors(err error, name string) []error {
	var found []error
	walkFields(err, func(f *fieldError) {
		if f.name == name {
			found = append(found, f)
		}
	})
	return found
}

// walkFields calls fn for the outermost field error of every branch of err.
func walkFields(err error, fn func(*fieldError)) {
	for !isNilErr(err) {
		switch e := err.(type) {
		case *fieldError:
			fn(e)
			return
		case unpacker:
			for _, child := range e.Unpack() {
				walkFields(child, fn)
			}
			return
		case causer:
			err = e.Cause()
		default:
			return
		}
	}
}
