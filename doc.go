/*
Package crowdsale defines the common interfaces that tie together the
extensions of the crowdsale application, as well as implementations of some
of the simpler components (when interfaces would be too much overhead).

The application is an ABCI state machine. Every transaction is processed by
a Handler (usually a Router) wrapped in a chain of Decorators. Extensions
(x/multiowned, x/funds, x/token, x/cash, x/sale) register their handlers and
queries with the application and load their initial state from the genesis
file.

We pass context through context.Context between app, decorators and
handlers. To do so, this package defines common keys to store info such as
block height, header and chain id. There exist two functions for every XYZ of
type T that we want to support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid lower-level modules
overwriting the value (eg. height, header).
*/
package crowdsale
