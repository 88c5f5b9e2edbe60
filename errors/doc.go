/*
Package errors defines the error codes returned to clients of the crowdsale
node and the helpers to build errors carrying them.

Every code is registered once, with Register, and is part of the public
protocol: clients switch on the ABCI code, never on the message. Prefer the
generic codes declared here. An extension registers its own code only when a
client must tell that failure apart, as ErrNotOwner or ErrCapReached do.

Create errors where they happen so the stack trace points at the right frame:

	return errors.ErrNotOwner.Newf("%s", addr)
	return errors.Wrap(err, "load escrow")

Only the innermost wrap records a stack trace. Declaring an error as a
package variable built with New records a useless one.

Formatting verbs:

	%s, %v  message chain, "outer: inner: code description"
	%+v     message chain followed by the stack trace

ABCIInfo turns any error into the code and log of an ABCI response and hides
internal details unless the node runs in debug mode.
*/
package errors
