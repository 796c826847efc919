package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// StackTrace returns the stack trace of the innermost wrap.
func (e *wrappedError) StackTrace() errors.StackTrace {
	return trimInternal(stackTrace(e.parent))
}

// trimInternal removes all frames that belong to this package, so that the
// trace starts at the place the error was created.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	// Trim our internal parts here. Manual error creation functions are
	// not useful in the trace.
	for len(st) > 0 && matchesFunc(st[0], "errors.Wrap", "errors.Wrapf", "errors.(*Error).New", "errors.Field") {
		st = st[1:]
	}
	// Trim out the runtime parts of the stack.
	for len(st) > 0 && matchesFile(st[len(st)-1], "runtime/", "src/testing/") {
		st = st[:len(st)-1]
	}
	return st
}

func matchesFile(f errors.Frame, substrs ...string) bool {
	file, _ := fileLine(f)
	for _, sub := range substrs {
		if strings.Contains(file, sub) {
			return true
		}
	}
	return false
}

func matchesFunc(f errors.Frame, prefixes ...string) bool {
	fn := funcName(f)
	for _, prefix := range prefixes {
		if strings.HasSuffix(fn, prefix) {
			return true
		}
	}
	return false
}

func funcName(f errors.Frame) string {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

func fileLine(f errors.Frame) (string, int) {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(uintptr(f) - 1)
}

// Format works like pkg/errors, with additions.
// %s is just the error message
// %+v is the full stack trace
// %v appends a compressed [filename:line] where the error was created
func (e *wrappedError) Format(s fmt.State, verb rune) {
	// normal output here....
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	// work with the stack trace... whole or part
	stack := e.StackTrace()
	if len(stack) == 0 {
		fmt.Fprint(s, e.Error())
		return
	}
	if s.Flag('+') {
		fmt.Fprintf(s, "%s\n", e.Error())
		writeStack(s, stack)
		return
	}
	file, line := fileLine(stack[0])
	fmt.Fprintf(s, "%s [%s:%d]", e.Error(), shortFile(file), line)
}

func writeStack(w io.Writer, stack errors.StackTrace) {
	for _, f := range stack {
		fmt.Fprintf(w, "%+v\n", f)
	}
}

// shortFile returns the last two path elements.
func shortFile(file string) string {
	parts := strings.Split(file, "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, "/")
}
