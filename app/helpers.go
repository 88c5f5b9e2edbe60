package app

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface of an application as a
// ReadOnlyKVStore. It reads the last committed state through the raw "/"
// query, so any bucket can be used on top of it.
type ABCIStore struct {
	app abci.Application
}

var _ crowdsale.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the state of given application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query(crowdsale.KeyQueryMod, key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d values for a key", len(models))
	}
}

// Has returns true if the given key is in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}

// Iterator attempts to do a range iteration over the store. Only prefix
// queries are supported by the abci server, so only iterating over the
// whole range is possible.
func (a *ABCIStore) Iterator(start, end []byte) (crowdsale.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "iterator only implemented for entire range")
	}
	models, err := a.query(crowdsale.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is Iterator played backwards.
func (a *ABCIStore) ReverseIterator(start, end []byte) (crowdsale.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "iterator only implemented for entire range")
	}
	models, err := a.query(crowdsale.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) query(mod string, data []byte) ([]crowdsale.Model, error) {
	path := "/"
	if mod != "" {
		path += "?" + mod
	}
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query %q: code %d: %s", path, res.Code, res.Log)
	}
	return toModels(res.Key, res.Value)
}

func toModels(keys, values []byte) ([]crowdsale.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
