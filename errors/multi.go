package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none or only one error is provided, there is no wrapping. If more than
// one error is given, all are flattened into a single error collection.
func Append(errs ...error) error {
	var flat multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			flat = append(flat, m...)
		} else {
			flat = append(flat, e)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return flat
	}
}

// multiErr represents a collection of errors. It is always flat, nesting is
// resolved by Append.
type multiErr []error

var _ unpacker = multiErr(nil)

func (errs multiErr) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("  * %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n%s", len(errs), strings.Join(msgs, "\n"))
}

// Unpack returns all errors held by this collection.
func (errs multiErr) Unpack() []error {
	return errs
}
