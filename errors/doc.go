/*
Package errors implements the error handling used by every barter module.

Every failure returned by a handler must wrap one of the registered root
errors. Root errors carry an ABCI code that is returned to the client, while
the wrapping layers carry the human readable context.

Common root errors are declared in this package. Extensions declare their own
using Register(code, description) at package initialization time:

	var ErrIncompleteDeal = errors.Register(1300, "deal is not fulfilled")

Test if an error is of a given kind using the Is method of the root error:

	if errors.ErrNotFound.Is(err) {
		...
	}

Wrapping attaches a stacktrace the first time an error is wrapped. Use
fmt.Printf("%+v", err) to print it.
*/
package errors
