package multiowned

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
	"github.com/mixbytes/crowdsale/weavetest"
	"github.com/mixbytes/crowdsale/x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	clock   *weavetest.BlockClock
	signers *weavetest.CtxAuth
	auth    x.Authenticator
	db      crowdsale.CacheableKVStore
	propose ProposeHandler
	revoke  RevokeHandler
	owners  []crowdsale.Condition
}

// newFixture creates a 2 of 3 gate named "board".
func newFixture(t testing.TB) *fixture {
	t.Helper()
	signers := &weavetest.CtxAuth{Key: "signers"}
	auth := x.ChainAuth(signers, Authenticate{})
	reg := crowdsale.NewMsgRegistry()
	RegisterMsgs(reg)

	f := &fixture{
		clock:   weavetest.NewBlockClock(time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC)),
		signers: signers,
		auth:    auth,
		db:      store.MemStore(),
		propose: NewProposeHandler(auth, reg, HandlerAsExecutor(NewAdminHandler(auth))),
		revoke:  NewRevokeHandler(auth),
	}
	gate := &Gate{Name: "board", Required: 2}
	for i := 0; i < 3; i++ {
		c := weavetest.NewCondition()
		f.owners = append(f.owners, c)
		gate.Owners = append(gate.Owners, c.Address())
	}
	require.NoError(t, NewGateBucket().Save(f.db, gate))
	return f
}

func (f *fixture) ctx(signer crowdsale.Condition) crowdsale.Context {
	return f.signers.SetConditions(f.clock.Ctx(), signer)
}

func (f *fixture) gate(t testing.TB) *Gate {
	t.Helper()
	g, err := NewGateBucket().GetGate(f.db, "board")
	require.NoError(t, err)
	return g
}

func proposal(t testing.TB, action crowdsale.Msg) *ProposeMsg {
	t.Helper()
	msg, err := NewProposeMsg("board", action)
	require.NoError(t, err)
	return msg
}

func TestProposeAndExecute(t *testing.T) {
	f := newFixture(t)
	newcomer := weavetest.NewCondition().Address()
	msg := proposal(t, &AddOwnerMsg{Gate: "board", Owner: newcomer})
	tx := &weavetest.Tx{Msg: msg}
	fp := Fingerprint("board", msg.Action)

	res, err := f.propose.Deliver(f.ctx(f.owners[0]), f.db, tx)
	require.NoError(t, err)
	assert.Equal(t, fp, res.Data)
	assert.Equal(t, "confirmed 1 of 2", res.Log)

	op, err := NewPendingBucket().GetOperation(f.db, "board", fp)
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, []crowdsale.Address{f.owners[0].Address()}, op.Confirmers)

	_, err = f.propose.Deliver(f.ctx(f.owners[0]), f.db, tx)
	assert.True(t, errors.ErrAlreadyConfirmed.Is(err), "got %+v", err)
	_, err = f.propose.Check(f.ctx(f.owners[0]), f.db, tx)
	assert.True(t, errors.ErrAlreadyConfirmed.Is(err), "got %+v", err)

	_, err = f.propose.Check(f.ctx(weavetest.NewCondition()), f.db, tx)
	assert.True(t, errors.ErrNotOwner.Is(err), "got %+v", err)

	// Check never executes the action.
	_, err = f.propose.Check(f.ctx(f.owners[1]), f.db, tx)
	require.NoError(t, err)
	assert.Len(t, f.gate(t).Owners, 3)

	res, err = f.propose.Deliver(f.ctx(f.owners[1]), f.db, tx)
	require.NoError(t, err)
	assert.Contains(t, res.Log, "add_owner")

	g := f.gate(t)
	require.Len(t, g.Owners, 4)
	assert.Equal(t, newcomer, g.Owners[3])

	op, err = NewPendingBucket().GetOperation(f.db, "board", fp)
	require.NoError(t, err)
	assert.Nil(t, op)
}

func TestProposeUnknownAction(t *testing.T) {
	f := newFixture(t)
	action := &weavetest.Msg{RoutePath: "unknown/action", Serialized: []byte("x")}
	tx := &weavetest.Tx{Msg: proposal(t, action)}

	_, err := f.propose.Deliver(f.ctx(f.owners[0]), f.db, tx)
	assert.True(t, errors.ErrMsg.Is(err), "got %+v", err)
}

func TestFailedActionKeepsNothing(t *testing.T) {
	f := newFixture(t)
	// Owners cannot be added twice, so the execution fails.
	tx := &weavetest.Tx{Msg: proposal(t, &AddOwnerMsg{Gate: "board", Owner: f.owners[2].Address()})}

	cache := f.db.CacheWrap()
	_, err := f.propose.Deliver(f.ctx(f.owners[0]), cache, tx)
	require.NoError(t, err)
	require.NoError(t, cache.Write())

	cache = f.db.CacheWrap()
	_, err = f.propose.Deliver(f.ctx(f.owners[1]), cache, tx)
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)
	cache.Discard()

	// The first confirmation is still there.
	op, err := NewPendingBucket().GetOperation(f.db, "board", Fingerprint("board", tx.Msg.(*ProposeMsg).Action))
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Len(t, op.Confirmers, 1)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	msg := proposal(t, &ChangeRequirementMsg{Gate: "board", Required: 3})
	fp := Fingerprint("board", msg.Action)

	_, err := f.propose.Deliver(f.ctx(f.owners[0]), f.db, &weavetest.Tx{Msg: msg})
	require.NoError(t, err)

	revoke := &weavetest.Tx{Msg: &RevokeMsg{Gate: "board", OperationID: fp}}

	_, err = f.revoke.Deliver(f.ctx(f.owners[1]), f.db, revoke)
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)

	_, err = f.revoke.Deliver(f.ctx(weavetest.NewCondition()), f.db, revoke)
	assert.True(t, errors.ErrNotOwner.Is(err), "got %+v", err)

	res, err := f.revoke.Deliver(f.ctx(f.owners[0]), f.db, revoke)
	require.NoError(t, err)
	assert.Equal(t, "operation dropped", res.Log)

	_, err = f.revoke.Deliver(f.ctx(f.owners[0]), f.db, revoke)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	// Starting over requires two fresh confirmations.
	res, err = f.propose.Deliver(f.ctx(f.owners[1]), f.db, &weavetest.Tx{Msg: msg})
	require.NoError(t, err)
	assert.Equal(t, "confirmed 1 of 2", res.Log)
	assert.EqualValues(t, 2, f.gate(t).Required)
}

func TestPendingOperationExpires(t *testing.T) {
	f := newFixture(t)
	msg := proposal(t, &ChangeRequirementMsg{Gate: "board", Required: 1})
	fp := Fingerprint("board", msg.Action)

	_, err := f.propose.Deliver(f.ctx(f.owners[0]), f.db, &weavetest.Tx{Msg: msg})
	require.NoError(t, err)

	f.clock.Advance(DefaultExpiry.Duration())

	_, err = f.revoke.Deliver(f.ctx(f.owners[0]), f.db, &weavetest.Tx{Msg: &RevokeMsg{Gate: "board", OperationID: fp}})
	assert.True(t, errors.ErrExpired.Is(err), "got %+v", err)

	res, err := f.propose.Deliver(f.ctx(f.owners[1]), f.db, &weavetest.Tx{Msg: msg})
	require.NoError(t, err)
	assert.Equal(t, "confirmed 1 of 2", res.Log)

	op, err := NewPendingBucket().GetOperation(f.db, "board", fp)
	require.NoError(t, err)
	assert.Equal(t, []crowdsale.Address{f.owners[1].Address()}, op.Confirmers)
	assert.EqualValues(t, 2, f.gate(t).Required)
}

func TestAdminHandler(t *testing.T) {
	stranger := weavetest.NewCondition().Address()

	cases := map[string]struct {
		msg       func(owners []crowdsale.Address) crowdsale.Msg
		asGate    bool
		wantErr   *errors.Error
		wantGate  func(owners []crowdsale.Address) *Gate
		dropsPend bool
	}{
		"owner cannot act for the gate": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &AddOwnerMsg{Gate: "board", Owner: stranger}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"add owner": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &AddOwnerMsg{Gate: "board", Owner: stranger}
			},
			asGate: true,
			wantGate: func(o []crowdsale.Address) *Gate {
				return &Gate{Name: "board", Owners: append(o, stranger), Required: 2}
			},
			dropsPend: true,
		},
		"add existing owner": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &AddOwnerMsg{Gate: "board", Owner: o[1]}
			},
			asGate:  true,
			wantErr: errors.ErrDuplicate,
		},
		"remove owner": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &RemoveOwnerMsg{Gate: "board", Owner: o[1]}
			},
			asGate: true,
			wantGate: func(o []crowdsale.Address) *Gate {
				return &Gate{Name: "board", Owners: []crowdsale.Address{o[0], o[2]}, Required: 2}
			},
			dropsPend: true,
		},
		"remove unknown owner": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &RemoveOwnerMsg{Gate: "board", Owner: stranger}
			},
			asGate:  true,
			wantErr: errors.ErrNotOwner,
		},
		"change owner keeps the position": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &ChangeOwnerMsg{Gate: "board", From: o[0], To: stranger}
			},
			asGate: true,
			wantGate: func(o []crowdsale.Address) *Gate {
				return &Gate{Name: "board", Owners: []crowdsale.Address{stranger, o[1], o[2]}, Required: 2}
			},
			dropsPend: true,
		},
		"change to an existing owner": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &ChangeOwnerMsg{Gate: "board", From: o[0], To: o[2]}
			},
			asGate:  true,
			wantErr: errors.ErrDuplicate,
		},
		"change requirement": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &ChangeRequirementMsg{Gate: "board", Required: 3}
			},
			asGate: true,
			wantGate: func(o []crowdsale.Address) *Gate {
				return &Gate{Name: "board", Owners: o, Required: 3}
			},
			dropsPend: true,
		},
		"requirement above the owner count": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &ChangeRequirementMsg{Gate: "board", Required: 4}
			},
			asGate:  true,
			wantErr: errors.ErrRequirement,
		},
		"zero requirement": {
			msg: func(o []crowdsale.Address) crowdsale.Msg {
				return &ChangeRequirementMsg{Gate: "board", Required: 0}
			},
			asGate:  true,
			wantErr: errors.ErrRequirement,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			owners := f.gate(t).Owners

			// Leave one pending operation to see if it is dropped.
			pending := proposal(t, &ChangeRequirementMsg{Gate: "board", Required: 1})
			_, err := f.propose.Deliver(f.ctx(f.owners[0]), f.db, &weavetest.Tx{Msg: pending})
			require.NoError(t, err)

			ctx := f.ctx(f.owners[0])
			if tc.asGate {
				ctx = withGate(ctx, "board")
			}
			h := NewAdminHandler(f.auth)
			tx := &weavetest.Tx{Msg: tc.msg(owners)}

			_, err = h.Check(ctx, f.db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "check: %+v", err)
			} else {
				require.NoError(t, err)
			}
			_, err = h.Deliver(ctx, f.db, tx)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "deliver: %+v", err)
				assert.Equal(t, owners, f.gate(t).Owners)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantGate(owners), f.gate(t))

			op, err := NewPendingBucket().GetOperation(f.db, "board", Fingerprint("board", pending.Action))
			require.NoError(t, err)
			assert.Equal(t, tc.dropsPend, op == nil)
		})
	}
}

func TestRemoveOwnerBelowRequirement(t *testing.T) {
	f := newFixture(t)
	ctx := withGate(f.clock.Ctx(), "board")
	h := NewAdminHandler(f.auth)
	owners := f.gate(t).Owners

	require.NoError(t, NewGateBucket().Save(f.db, &Gate{Name: "board", Owners: owners, Required: 3}))
	_, err := h.Deliver(ctx, f.db, &weavetest.Tx{Msg: &RemoveOwnerMsg{Gate: "board", Owner: owners[0]}})
	assert.True(t, errors.ErrInvariant.Is(err), "got %+v", err)
}

func TestGateValidate(t *testing.T) {
	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()

	many := make([]crowdsale.Address, MaxOwners+1)
	for i := range many {
		many[i] = weavetest.NewCondition().Address()
	}

	cases := map[string]struct {
		gate    Gate
		wantErr *errors.Error
	}{
		"valid":              {gate: Gate{Name: "board", Owners: []crowdsale.Address{a, b}, Required: 2}},
		"bad name":           {gate: Gate{Name: "B", Owners: []crowdsale.Address{a}, Required: 1}, wantErr: errors.ErrInput},
		"no owners":          {gate: Gate{Name: "board", Required: 1}, wantErr: errors.ErrInvariant},
		"too many owners":    {gate: Gate{Name: "board", Owners: many, Required: 1}, wantErr: errors.ErrInvariant},
		"duplicated owner":   {gate: Gate{Name: "board", Owners: []crowdsale.Address{a, b, a}, Required: 1}, wantErr: errors.ErrDuplicate},
		"zero required":      {gate: Gate{Name: "board", Owners: []crowdsale.Address{a}}, wantErr: errors.ErrRequirement},
		"required too large": {gate: Gate{Name: "board", Owners: []crowdsale.Address{a}, Required: 2}, wantErr: errors.ErrRequirement},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.gate.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("board", []byte("a")), Fingerprint("board", []byte("a")))
	assert.NotEqual(t, Fingerprint("board", []byte("a")), Fingerprint("other", []byte("a")))
	assert.NotEqual(t, Fingerprint("board", []byte("a")), Fingerprint("board", []byte("b")))
	assert.Len(t, Fingerprint("board", nil), 32)
}

func TestGenesis(t *testing.T) {
	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()
	genesis := `{
		"conf": {"multiowned": {"expiry": "48h"}},
		"multiowned": {"gates": [{"name": "board", "owners": ["` + a.String() + `", "` + b.String() + `"], "required": 2}]}
	}`
	var opts crowdsale.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	g, err := NewGateBucket().GetGate(db, "board")
	require.NoError(t, err)
	assert.Equal(t, []crowdsale.Address{a, b}, g.Owners)
	assert.EqualValues(t, 2, g.Required)

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.Equal(t, crowdsale.AsUnixDuration(48*time.Hour), conf.Expiry)

	// Loading the same gate twice fails.
	assert.True(t, errors.ErrDuplicate.Is(Initializer{}.FromGenesis(opts, db)))
}

func TestDefaultConfiguration(t *testing.T) {
	conf, err := loadConf(store.MemStore())
	require.NoError(t, err)
	assert.Equal(t, DefaultExpiry, conf.Expiry)
}

func TestExpiredOperationsArePurged(t *testing.T) {
	f := newFixture(t)
	stale := []*ProposeMsg{
		proposal(t, &ChangeRequirementMsg{Gate: "board", Required: 1}),
		proposal(t, &ChangeRequirementMsg{Gate: "board", Required: 3}),
	}
	for _, msg := range stale {
		_, err := f.propose.Deliver(f.ctx(f.owners[0]), f.db, &weavetest.Tx{Msg: msg})
		require.NoError(t, err)
	}
	pending := NewPendingBucket()
	keys, err := pending.Keys(f.db, []byte("board/"))
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	// An owner that confirmed an expired operation may confirm it again.
	f.clock.Advance(DefaultExpiry.Duration())
	_, err = f.propose.Check(f.ctx(f.owners[0]), f.db, &weavetest.Tx{Msg: stale[0]})
	require.NoError(t, err)

	fresh := proposal(t, &AddOwnerMsg{Gate: "board", Owner: weavetest.NewCondition().Address()})
	_, err = f.propose.Deliver(f.ctx(f.owners[1]), f.db, &weavetest.Tx{Msg: fresh})
	require.NoError(t, err)

	keys, err = pending.Keys(f.db, []byte("board/"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{OperationKey("board", Fingerprint("board", fresh.Action))}, keys)
}

func TestPurgeExpired(t *testing.T) {
	db := store.MemStore()
	b := NewPendingBucket()
	created := crowdsale.AsUnixTime(time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC))
	voter := weavetest.NewCondition().Address()
	for i, at := range []crowdsale.UnixTime{created, created.Add(time.Hour)} {
		op := &PendingOperation{Gate: "board", Action: []byte{byte(i + 1)}, Confirmers: []crowdsale.Address{voter}, CreatedAt: at}
		require.NoError(t, b.Save(db, op))
	}
	other := &PendingOperation{Gate: "other", Action: []byte{9}, Confirmers: []crowdsale.Address{voter}, CreatedAt: created}
	require.NoError(t, b.Save(db, other))

	horizon := crowdsale.UnixDuration(2 * 3600)
	n, err := b.PurgeExpired(db, "board", created.Add(2*time.Hour), horizon)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	keys, err := b.Keys(db, []byte("board/"))
	require.NoError(t, err)
	assert.Len(t, keys, 1)
	keys, err = b.Keys(db, []byte("other/"))
	require.NoError(t, err)
	assert.Len(t, keys, 1, "other gates are left alone")
}
