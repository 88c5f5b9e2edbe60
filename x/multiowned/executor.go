package multiowned

import (
	"github.com/mixbytes/crowdsale"
)

// Executor runs the confirmed action of a gate.
type Executor func(ctx crowdsale.Context, store crowdsale.KVStore, msg crowdsale.Msg) (*crowdsale.DeliverResult, error)

// HandlerAsExecutor wraps the msg in a fake Tx to satisfy the Handler
// interface. Since a Router and Decorators also expose this interface, we
// can wrap any stack that does not care about the extra Tx info besides Msg.
func HandlerAsExecutor(h crowdsale.Handler) Executor {
	return func(ctx crowdsale.Context, store crowdsale.KVStore, msg crowdsale.Msg) (*crowdsale.DeliverResult, error) {
		return h.Deliver(ctx, store, &actionTx{msg: msg})
	}
}

type actionTx struct {
	msg crowdsale.Msg
}

var _ crowdsale.Tx = (*actionTx)(nil)

func (tx *actionTx) GetMsg() (crowdsale.Msg, error) {
	return tx.msg, nil
}

func (tx *actionTx) Marshal() ([]byte, error) {
	return crowdsale.Seal(tx.msg)
}

func (tx *actionTx) Unmarshal([]byte) error {
	panic("actions are never decoded as transactions")
}
