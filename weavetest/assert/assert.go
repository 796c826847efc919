// Package assert provides the small set of assertions used across the
// package tests. Every helper fails the test immediately.
package assert

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/iov-one/authtoken/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil. Typed nil values, for
// example a nil pointer stored in an error interface, are nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if isNil(value) {
		return
	}
	// %+v prints the stack trace of errors created by the errors package.
	t.Fatalf("want a nil value, got %+v", value)
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails the test if two values are not deeply equal. Byte slices are
// printed in hex.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if wb, ok := want.([]byte); ok {
		if gb, ok := got.([]byte); ok {
			if !bytes.Equal(wb, gb) {
				t.Fatalf("bytes not equal\nwant %X\n got %X", wb, gb)
			}
			return
		}
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or wraps it.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails the test unless err holds exactly one error for given
// field and that error is of kind want. Use nil want to ensure the field has
// no error.
func FieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("want no %s error, got %q", field, errs)
		}
		return
	}
	switch len(errs) {
	case 0:
		t.Fatalf("no %s error found in %v", field, err)
	case 1:
		if !want.Is(errs[0]) {
			t.Fatalf("want %s error %q, got %q", field, want, errs[0])
		}
	default:
		for i, e := range errs {
			t.Logf("\t%s error %d: %q", field, i+1, e)
		}
		t.Fatalf("want one %s error, got %d", field, len(errs))
	}
}
