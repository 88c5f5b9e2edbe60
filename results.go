package crowdsale

import (
	"github.com/mixbytes/crowdsale/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	common "github.com/tendermint/tendermint/libs/common"
)

// CheckResult is what a handler returns from a successful Check. Failures
// are always reported as an error, never as a result.
type CheckResult struct {
	// Data is machine readable, such as the id of a created entity.
	Data []byte
	Log  string
	// GasAllocated is the work budget the message asks for. Handlers use it
	// to rank their messages, it is not charged.
	GasAllocated int64
}

// ToABCI builds the CheckTx response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverResult is what a handler returns from a successful Deliver.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags index the transaction, for example by action or by the
	// contributor address.
	Tags    []common.KVPair
	GasUsed int64
}

// ToABCI builds the DeliverTx response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags, GasUsed: d.GasUsed}
}

// DeliverOrError builds the DeliverTx response from whatever the handler
// returned. A non nil err wins over the result.
func DeliverOrError(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return res.ToABCI()
}

// CheckOrError is DeliverOrError for CheckTx.
func CheckOrError(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return res.ToABCI()
}

// DeliverTxError reports err with its registered ABCI code. Unregistered
// errors are reported as internal.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError is DeliverTxError for CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}
