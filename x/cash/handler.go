package cash

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
	common "github.com/tendermint/tendermint/libs/common"
)

const sendCost int64 = 100

// RegisterMsgs adds the cash messages to the registry.
func RegisterMsgs(reg *crowdsale.MsgRegistry) {
	reg.Register(&SendMsg{})
}

// RegisterRoutes binds the cash messages to their handlers.
func RegisterRoutes(r crowdsale.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// RegisterQuery publishes wallets under "/cash/wallets".
func RegisterQuery(qr crowdsale.QueryRouter) {
	NewBucket().Register("cash/wallets", qr)
}

// SendHandler moves value between two wallets. The source must authorize
// the transfer, which is also how an escrow or a gate pays out.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ crowdsale.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	if _, err := h.load(ctx, tx); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{GasAllocated: sendCost}, nil
}

// Deliver moves the amount and tags the transaction with both parties.
func (h SendHandler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &crowdsale.DeliverResult{
		Log: msg.Memo,
		Tags: []common.KVPair{
			{Key: []byte("cash.source"), Value: []byte(msg.Source.String())},
			{Key: []byte("cash.destination"), Value: []byte(msg.Destination.String())},
		},
	}, nil
}

func (h SendHandler) load(ctx crowdsale.Context, tx crowdsale.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := crowdsale.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source did not sign")
	}
	return &msg, nil
}
