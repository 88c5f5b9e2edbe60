package weavetest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/app"
	"github.com/mixbytes/crowdsale/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// ChainRunner provides a translation layer between an ABCI interface and a
// crowdsale application. It takes care of serializing transactions and
// creating blocks. Block time is taken from a fake clock, so a test can move
// the chain forward in time between blocks.
type ChainRunner struct {
	*app.ABCIStore

	chainID string
	height  int64
	t       Tester
	app     abci.Application
	clock   clockwork.FakeClock
}

// NewChainRunner creates a ChainRunner instance that can be used to process
// deliver and check transaction requests.
func NewChainRunner(t Tester, application abci.Application, chainID string, clock clockwork.FakeClock) *ChainRunner {
	return &ChainRunner{
		ABCIStore: app.NewABCIStore(application),
		chainID:   chainID,
		t:         t,
		app:       application,
		clock:     clock,
	}
}

// ChainApp is the view of the application available while a block is
// being built.
type ChainApp interface {
	DeliverTx(crowdsale.Tx) (*abci.ResponseDeliverTx, error)
	CheckTx(crowdsale.Tx) error
	crowdsale.ReadOnlyKVStore
}

var _ ChainApp = (*ChainRunner)(nil)

// TxError is returned when the application rejects a transaction.
type TxError struct {
	Code uint32
	Log  string
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Log)
}

// Is returns true if the transaction was rejected with given error.
func (e *TxError) Is(err *errors.Error) bool {
	return e.Code == err.ABCICode()
}

// InitChain serialize to JSON given genesis and loads it. Loading a genesis is
// causing a block creation.
func (w *ChainRunner) InitChain(genesis interface{}) {
	w.t.Helper()
	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		w.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}

	changed := w.InBlock(func(ChainApp) error {
		w.app.InitChain(abci.RequestInitChain{
			Time:          w.clock.Now(),
			ChainId:       w.chainID,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		w.t.Fatalf("genesis did not change the state")
	}
}

// CheckTx translates given transaction into ABCI interface and executes.
func (w *ChainRunner) CheckTx(tx crowdsale.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	if resp := w.app.CheckTx(raw); resp.Code != 0 {
		return &TxError{Code: resp.Code, Log: resp.Log}
	}
	return nil
}

// DeliverTx translates given transaction into ABCI interface and executes.
// A rejected transaction results in a *TxError.
func (w *ChainRunner) DeliverTx(tx crowdsale.Tx) (*abci.ResponseDeliverTx, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal transaction")
	}
	resp := w.app.DeliverTx(raw)
	if resp.Code != 0 {
		return nil, &TxError{Code: resp.Code, Log: resp.Log}
	}
	return &resp, nil
}

// InBlock begins a block at the current clock time and runs given function.
// All transactions executed within given function are part of newly created
// block. Upon success the block is finished and changes commited.
// InBlock returns true if the application state was modified.
//
// Any failure is ending the test instantly.
func (w *ChainRunner) InBlock(executeTx func(ChainApp) error) bool {
	w.t.Helper()

	w.height++
	initialHash := w.app.Info(abci.RequestInfo{}).LastBlockAppHash

	w.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: w.chainID,
			Height:  w.height,
			Time:    w.clock.Now(),
		},
	})

	if err := executeTx(w); err != nil {
		w.t.Fatalf("operation failed with %+v", err)
	}

	w.app.EndBlock(abci.RequestEndBlock{Height: w.height})

	// Commit data contains the new app hash. It differs from the initial
	// hash only if the state was modified.
	finalHash := w.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}

// ChainID returns the id of the chain run.
func (w *ChainRunner) ChainID() string {
	return w.chainID
}
