/*
Package errors implements custom error interfaces for authtoken.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. x/access defines its own
domain errors (owner already set, not owner, invalid signature, nonce
mismatch) using Register.

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New or errors.Wrap(Errxxx, ...).
Code allows to distinguish types of errors on the client side and act
accordingly. Info extracts the code and a message that is safe to show.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
