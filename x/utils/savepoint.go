package utils

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// Savepoint runs the rest of the stack against a cache of the store. The
// cache is written back only when the call succeeds, so a failed sale
// operation leaves no partial state behind.
//
// A zero Savepoint does nothing. Enable it per phase with OnCheck and
// OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ crowdsale.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Checker) (*crowdsale.CheckResult, error) {
	var res *crowdsale.CheckResult
	err := isolate(db, s.onCheck, func(db crowdsale.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Deliverer) (*crowdsale.DeliverResult, error) {
	var res *crowdsale.DeliverResult
	err := isolate(db, s.onDeliver, func(db crowdsale.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate calls fn with a cache over db and writes it only if fn succeeds.
// fn gets db itself when isolation is off or db cannot be cached.
func isolate(db crowdsale.KVStore, enabled bool, fn func(crowdsale.KVStore) error) error {
	cacheable, ok := db.(crowdsale.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "write savepoint")
}
