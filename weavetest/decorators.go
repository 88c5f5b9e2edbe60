package weavetest

import "github.com/mixbytes/crowdsale"

// calls counts Check and Deliver invocations of a mock.
type calls struct {
	check, deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// Decorator passes every call to the next handler unless CheckErr or
// DeliverErr is set, in which case that error is returned instead. Calls are
// counted either way.
type Decorator struct {
	calls
	CheckErr   error
	DeliverErr error
}

var _ crowdsale.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Checker) (*crowdsale.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Deliverer) (*crowdsale.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns h wrapped by a single decorator.
func Decorate(h crowdsale.Handler, d crowdsale.Decorator) crowdsale.Handler {
	return decorated{inner: h, dec: d}
}

type decorated struct {
	inner crowdsale.Handler
	dec   crowdsale.Decorator
}

func (d decorated) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.inner)
}

func (d decorated) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.inner)
}
