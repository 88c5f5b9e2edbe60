package utils

import (
	"context"
	"testing"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/store"
	"github.com/mixbytes/crowdsale/weavetest"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	h := weavetest.Decorate(weavetest.PanicHandler{Msg: "boom"}, NewRecovery())
	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/recovery"}}
	panics := txPanics.WithLabelValues("test/recovery")
	before := testutil.ToFloat64(panics)

	_, err := h.Check(ctx, db, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "boom")

	_, err = h.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Equal(t, before+2, testutil.ToFloat64(panics))
}

func TestSavepoint(t *testing.T) {
	key, value := []byte("key"), []byte("value")

	cases := map[string]struct {
		savepoint Savepoint
		handleErr error
		deliver   bool
		wantSaved bool
	}{
		"successful deliver is written": {
			savepoint: NewSavepoint().OnDeliver(),
			deliver:   true,
			wantSaved: true,
		},
		"failed deliver is rolled back": {
			savepoint: NewSavepoint().OnDeliver(),
			handleErr: errors.ErrState,
			deliver:   true,
		},
		"failed check is rolled back": {
			savepoint: NewSavepoint().OnCheck(),
			handleErr: errors.ErrState,
		},
		"disabled savepoint leaves the write": {
			savepoint: NewSavepoint().OnCheck(),
			handleErr: errors.ErrState,
			deliver:   true,
			wantSaved: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := weavetest.Decorate(weavetest.WriteHandler{Key: key, Value: value, Err: tc.handleErr}, tc.savepoint)

			var err error
			if tc.deliver {
				_, err = h.Deliver(context.Background(), db, &weavetest.Tx{})
			} else {
				_, err = h.Check(context.Background(), db, &weavetest.Tx{})
			}
			if tc.handleErr != nil {
				assert.Error(t, err)
			}

			has, err := db.Has(key)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSaved, has)
		})
	}
}

func TestActionTagger(t *testing.T) {
	handler := &weavetest.Handler{}
	h := weavetest.Decorate(handler, NewActionTagger())
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "sale/contribute"}}

	res, err := h.Deliver(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, []byte(ActionKey), res.Tags[0].Key)
	assert.Equal(t, []byte("sale/contribute"), res.Tags[0].Value)

	delivered := actionsDelivered.WithLabelValues("sale/contribute")
	before := testutil.ToFloat64(delivered)
	handler.DeliverErr = errors.ErrNotActive
	_, err = h.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrNotActive.Is(err))
	assert.Equal(t, before, testutil.ToFloat64(delivered), "failures are not counted")
}

func TestLogging(t *testing.T) {
	handler := &weavetest.Handler{DeliverResult: crowdsale.DeliverResult{Log: "done"}}
	h := weavetest.Decorate(handler, NewLogging())
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "sale/check_time"}}

	res, err := h.Deliver(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Log)
	assert.Equal(t, 1, handler.DeliverCallCount())
}
