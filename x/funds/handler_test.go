package funds

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
	"github.com/mixbytes/crowdsale/weavetest"
	"github.com/mixbytes/crowdsale/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	controller := weavetest.NewCondition()
	admin := weavetest.NewCondition()
	alice := weavetest.NewCondition()
	beneficiary := weavetest.NewCondition().Address()

	genesis := `{"funds": {"controller": "` + controller.Address().String() + `", "admin": "` + admin.Address().String() + `"}}`
	var opts crowdsale.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	cases := map[string]struct {
		signer  crowdsale.Condition
		msg     crowdsale.Msg
		state   State
		wantErr *errors.Error
		check   func(t *testing.T, db crowdsale.KVStore)
	}{
		"refund": {
			signer: alice,
			msg:    &WithdrawPaymentsMsg{Contributor: alice.Address()},
			state:  Refunding,
			check: func(t *testing.T, db crowdsale.KVStore) {
				b, err := cash.NewController().Balance(db, alice.Address())
				require.NoError(t, err)
				assert.Equal(t, "10", b.String())
			},
		},
		"refund while gathering": {
			signer:  alice,
			msg:     &WithdrawPaymentsMsg{Contributor: alice.Address()},
			state:   Gathering,
			wantErr: errors.ErrState,
		},
		"release": {
			signer: admin,
			msg:    &SendValueMsg{Destination: beneficiary, Amount: coin.NewAmount(7)},
			state:  Success,
			check: func(t *testing.T, db crowdsale.KVStore) {
				b, err := cash.NewController().Balance(db, beneficiary)
				require.NoError(t, err)
				assert.Equal(t, "7", b.String())
			},
		},
		"release zero": {
			signer:  admin,
			msg:     &SendValueMsg{Destination: beneficiary, Amount: coin.NewAmount(0)},
			state:   Success,
			wantErr: errors.ErrZeroValue,
		},
		"finish gathering": {
			signer: controller,
			msg:    &SetStateMsg{State: Success},
			state:  Gathering,
			check: func(t *testing.T, db crowdsale.KVStore) {
				reg, err := NewRegistryBucket().Get(db)
				require.NoError(t, err)
				assert.Equal(t, Success, reg.State)
			},
		},
		"unknown state": {
			signer:  controller,
			msg:     &SetStateMsg{State: 7},
			state:   Gathering,
			wantErr: errors.ErrInput,
		},
		"replace controller": {
			signer: admin,
			msg:    &SetControllerMsg{Controller: alice.Address()},
			state:  Gathering,
			check: func(t *testing.T, db crowdsale.KVStore) {
				reg, err := NewRegistryBucket().Get(db)
				require.NoError(t, err)
				assert.Equal(t, alice.Address(), reg.Controller)
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			require.NoError(t, Initializer{}.FromGenesis(opts, db))

			auth := &weavetest.CtxAuth{Key: "auth"}
			keeper := NewKeeper(auth, cash.NewController())
			require.NoError(t, cash.NewController().IssueCoins(db, alice.Address(), coin.NewAmount(10)))
			ctx := auth.SetConditions(weavetest.NewBlockClock(time.Now()).Ctx(), controller)
			require.NoError(t, keeper.Record(ctx, db, alice.Address(), coin.NewAmount(10)))
			if tc.state != Gathering {
				require.NoError(t, keeper.SetState(ctx, db, tc.state))
			}

			h := NewHandler(keeper)
			ctx = auth.SetConditions(weavetest.NewBlockClock(time.Now()).Ctx(), tc.signer)
			tx := &weavetest.Tx{Msg: tc.msg}

			_, err := h.Check(ctx, db, tx)
			if tc.wantErr != nil && tc.wantErr.Is(err) {
				return
			}
			require.NoError(t, err)

			_, err = h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			tc.check(t, db)
		})
	}
}

func TestGenesisWithoutSection(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(crowdsale.Options{}, db))
	_, err := NewRegistryBucket().Get(db)
	assert.True(t, errors.ErrNotFound.Is(err))
}
