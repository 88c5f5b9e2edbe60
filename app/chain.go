package app

import (
	"reflect"

	"github.com/mixbytes/crowdsale"
)

// Decorators is an ordered list of decorators waiting for the handler they
// will wrap. The first decorator in the list sees a transaction first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
type Decorators struct {
	chain []crowdsale.Decorator
}

// ChainDecorators starts a decorator list. Nil entries are skipped, so an
// optional decorator can be passed without a branch at the call site.
func ChainDecorators(ds ...crowdsale.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a copy of d extended with ds. d itself is left untouched.
func (d Decorators) Chain(ds ...crowdsale.Decorator) Decorators {
	chain := make([]crowdsale.Decorator, 0, len(d.chain)+len(ds))
	chain = append(chain, d.chain...)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNilDecorator(d crowdsale.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the list with the final handler, usually a Router.
func (d Decorators) WithHandler(h crowdsale.Handler) crowdsale.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

// link binds one decorator to the rest of the chain.
type link struct {
	dec  crowdsale.Decorator
	next crowdsale.Handler
}

var _ crowdsale.Handler = link{}

func (l link) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
