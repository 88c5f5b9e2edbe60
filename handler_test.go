package crowdsale

import (
	"encoding/json"
	"testing"

	"github.com/mixbytes/crowdsale/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

type recordingInit struct {
	name  string
	calls *[]string
	err   error
}

func (r recordingInit) FromGenesis(opts Options, kv KVStore) error {
	var v string
	if err := opts.ReadOptions(r.name, &v); err != nil {
		return err
	}
	*r.calls = append(*r.calls, r.name+"="+v)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var opts Options
	require.NoError(t, json.Unmarshal([]byte(`{"cash": "wallets", "sale": "params", "broken": 5}`), &opts))

	var calls []string
	err := ChainInitializers(
		recordingInit{name: "cash", calls: &calls},
		recordingInit{name: "token", calls: &calls},
		recordingInit{name: "sale", calls: &calls, err: errors.ErrState},
		recordingInit{name: "funds", calls: &calls},
	).FromGenesis(opts, nil)

	assert.True(t, errors.ErrState.Is(err))
	// A missing section is not an error and the chain stops at the first
	// failure.
	assert.Equal(t, []string{"cash=wallets", "token=", "sale=params"}, calls)

	var v string
	err = opts.ReadOptions("broken", &v)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestResultsToABCI(t *testing.T) {
	deliver := DeliverOrError(&DeliverResult{Data: []byte{1}, Log: "ok", GasUsed: 7}, nil, false)
	assert.Equal(t, abci.ResponseDeliverTx{Data: []byte{1}, Log: "ok", GasUsed: 7}, deliver)

	check := CheckOrError(&CheckResult{GasAllocated: 100, Log: "fine"}, nil, false)
	assert.Equal(t, uint32(0), check.Code)
	assert.Equal(t, int64(100), check.GasWanted)

	deliver = DeliverOrError(nil, errors.Wrap(errors.ErrNotOwner, "board"), false)
	assert.Equal(t, errors.ErrNotOwner.ABCICode(), deliver.Code)
	assert.Contains(t, deliver.Log, "board")

	check = CheckOrError(nil, errors.ErrCapReached, false)
	assert.Equal(t, errors.ErrCapReached.ABCICode(), check.Code)
}

type staticQuery []Model

func (s staticQuery) Query(ReadOnlyKVStore, string, []byte) ([]Model, error) { return s, nil }

func TestQueryRouter(t *testing.T) {
	r := NewQueryRouter()
	wallets := staticQuery{Pair([]byte("a"), []byte("1"))}
	r.RegisterAll(func(qr QueryRouter) {
		qr.Register("cash/wallets", wallets)
	})

	assert.Equal(t, wallets, r.Handler("cash/wallets"))
	assert.Nil(t, r.Handler("cash/other"))
	assert.Panics(t, func() { r.Register("cash/wallets", wallets) })
	assert.Panics(t, func() { r.Register("cash wallets", wallets) })
}
