package funds

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
	"github.com/mixbytes/crowdsale/x/cash"
)

const (
	withdrawCost int64 = 50
	adminCost    int64 = 100
)

// RegisterMsgs adds the messages of this extension to the registry.
func RegisterMsgs(reg *crowdsale.MsgRegistry) {
	reg.Register(
		&WithdrawPaymentsMsg{},
		&SendValueMsg{},
		&SetControllerMsg{},
		&SetStateMsg{},
	)
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r crowdsale.Registry, auth x.Authenticator, cashCtrl cash.Controller) {
	h := NewHandler(NewKeeper(auth, cashCtrl))
	r.Handle(WithdrawPaymentsMsg{}.Path(), h)
	r.Handle(SendValueMsg{}.Path(), h)
	r.Handle(SetControllerMsg{}.Path(), h)
	r.Handle(SetStateMsg{}.Path(), h)
}

// RegisterQuery registers the registry under "/funds/registry" and the
// ledger under "/funds/contributions".
func RegisterQuery(qr crowdsale.QueryRouter) {
	NewRegistryBucket().Register("funds/registry", qr)
	NewContributionBucket().Register("funds/contributions", qr)
}

// Handler exposes the escrow operations as messages.
type Handler struct {
	keeper Keeper
}

var _ crowdsale.Handler = Handler{}

func NewHandler(k Keeper) Handler {
	return Handler{keeper: k}
}

func (h Handler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	if _, ok := msg.(*WithdrawPaymentsMsg); ok {
		return &crowdsale.CheckResult{GasAllocated: withdrawCost}, nil
	}
	return &crowdsale.CheckResult{GasAllocated: adminCost}, nil
}

func (h Handler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *WithdrawPaymentsMsg:
		refund, err := h.keeper.WithdrawPayments(ctx, db, m.Contributor)
		if err != nil {
			return nil, err
		}
		return &crowdsale.DeliverResult{Log: "refunded " + refund.String()}, nil
	case *SendValueMsg:
		if err := h.keeper.SendValue(ctx, db, m.Destination, m.Amount); err != nil {
			return nil, err
		}
		crowdsale.GetLogger(ctx).Info("escrow released value", "destination", m.Destination, "amount", m.Amount.String())
		return &crowdsale.DeliverResult{}, nil
	case *SetControllerMsg:
		if err := h.keeper.SetController(ctx, db, m.Controller); err != nil {
			return nil, err
		}
		return &crowdsale.DeliverResult{}, nil
	case *SetStateMsg:
		if err := h.keeper.SetState(ctx, db, m.State); err != nil {
			return nil, err
		}
		return &crowdsale.DeliverResult{}, nil
	}
	return nil, errors.Wrapf(errors.ErrMsg, "unexpected %T", msg)
}

func loadMsg(tx crowdsale.Tx) (crowdsale.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return msg, errors.Wrap(msg.Validate(), "invalid message")
}
