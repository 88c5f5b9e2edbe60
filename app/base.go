package app

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is the complete abci.Application: StoreApp plus transaction
// decoding and the handler stack for CheckTx and DeliverTx.
//
// There is no ticker. Nothing runs at a block boundary, every state change
// comes from a transaction.
type BaseApp struct {
	*StoreApp
	decoder crowdsale.TxDecoder
	handler crowdsale.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp wires the decoder and handler to the store. With debug set,
// error responses carry the full stack trace.
func NewBaseApp(store *StoreApp, decoder crowdsale.TxDecoder, handler crowdsale.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx executes the transaction against the deliver cache.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return crowdsale.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return crowdsale.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the check cache, which is
// discarded on Commit.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return crowdsale.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return crowdsale.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx crowdsale.Tx) crowdsale.Context {
	return crowdsale.WithLogInfo(b.BlockContext(), "call", call, "path", crowdsale.GetPath(tx))
}

// decode turns a decoder panic on malformed bytes into ErrPanic.
func (b BaseApp) decode(raw []byte) (tx crowdsale.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
