package crowdsale

import (
	"encoding/json"

	"github.com/mixbytes/crowdsale/errors"
)

// Handler processes the messages routed to it, for example a contribution
// or a gate confirmation. Check runs on CheckTx and must not depend on
// writes it makes, Deliver runs on DeliverTx and changes state.
type Handler interface {
	Checker
	Deliverer
}

// Checker is the CheckTx half of a Handler.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is the DeliverTx half of a Handler.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the next handler of the stack. Authentication,
// logging, panic recovery and savepoints are decorators.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message paths to handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state, one raw JSON document per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the document stored under key into obj. A missing key
// leaves obj untouched and is not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs each initializer in turn and stops at the first
// failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (all initializers) FromGenesis(opts Options, db KVStore) error {
	for _, ini := range all {
		if err := ini.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
