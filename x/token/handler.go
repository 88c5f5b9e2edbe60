package token

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
)

const transferCost int64 = 100

// RegisterMsgs adds the messages of this extension to the registry.
func RegisterMsgs(reg *crowdsale.MsgRegistry) {
	reg.Register(&TransferMsg{}, &SetControllerMsg{}, &SetTransfersEnabledMsg{})
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r crowdsale.Registry, auth x.Authenticator) {
	h := NewHandler(NewKeeper(auth))
	r.Handle(TransferMsg{}.Path(), h)
	r.Handle(SetControllerMsg{}.Path(), h)
	r.Handle(SetTransfersEnabledMsg{}.Path(), h)
}

// RegisterQuery registers balances under "/token/balances" and the ledger
// under "/token/ledger".
func RegisterQuery(qr crowdsale.QueryRouter) {
	NewBalanceBucket().Register("token/balances", qr)
	NewLedgerBucket().Register("token/ledger", qr)
}

// Handler exposes the ledger operations as messages.
type Handler struct {
	keeper Keeper
}

var _ crowdsale.Handler = Handler{}

func NewHandler(k Keeper) Handler {
	return Handler{keeper: k}
}

func (h Handler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if m, ok := msg.(*TransferMsg); ok {
		l, err := h.keeper.Ledger(db)
		if err != nil {
			return nil, err
		}
		if !l.TransfersEnabled {
			return nil, errors.Wrap(errors.ErrState, "transfers are frozen")
		}
		if !h.keeper.auth.HasAddress(ctx, m.Source) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "transfer source")
		}
	}
	return &crowdsale.CheckResult{GasAllocated: transferCost}, nil
}

func (h Handler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *TransferMsg:
		err = h.keeper.Transfer(ctx, db, m.Source, m.Destination, m.Amount)
	case *SetControllerMsg:
		err = h.keeper.SetController(ctx, db, m.Controller)
	case *SetTransfersEnabledMsg:
		err = h.keeper.SetTransfersEnabled(ctx, db, m.Enabled)
	default:
		err = errors.Wrapf(errors.ErrMsg, "unexpected %T", msg)
	}
	if err != nil {
		return nil, err
	}
	return &crowdsale.DeliverResult{}, nil
}
