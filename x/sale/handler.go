package sale

import (
	"fmt"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/gconf"
	"github.com/mixbytes/crowdsale/x"
)

const (
	contributeCost int64 = 200
	adminCost      int64 = 100
)

// RegisterMsgs adds the messages of this extension to the registry.
func RegisterMsgs(reg *crowdsale.MsgRegistry) {
	reg.Register(
		&ContributeMsg{},
		&CheckTimeMsg{},
		&SetTimeMsg{},
		&ProvisionChannelsMsg{},
		&UpdateConfigurationMsg{},
	)
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r crowdsale.Registry, auth x.Authenticator, k Keeper) {
	r.Handle(ContributeMsg{}.Path(), NewContributeHandler(k))
	admin := NewAdminHandler(k)
	r.Handle(CheckTimeMsg{}.Path(), admin)
	r.Handle(SetTimeMsg{}.Path(), admin)
	r.Handle(ProvisionChannelsMsg{}.Path(), admin)
	r.Handle(UpdateConfigurationMsg{}.Path(), gconf.NewUpdateConfigurationHandler(pkg, &Configuration{}, auth))
}

// RegisterQuery registers the sale buckets:
//
//	/sale/params        the immutable parameters
//	/sale/state         the progress
//	/sale/contributors  investments by contributor address
//	/sale/channels      totals by 8 byte big-endian channel id
func RegisterQuery(qr crowdsale.QueryRouter) {
	NewParamsBucket().Register("sale/params", qr)
	NewStateBucket().Register("sale/state", qr)
	NewInvestmentBucket().Register("sale/contributors", qr)
	NewChannelBucket().Register("sale/channels", qr)
}

// ContributeHandler accepts contributions.
type ContributeHandler struct {
	keeper Keeper
}

var _ crowdsale.Handler = ContributeHandler{}

func NewContributeHandler(k Keeper) ContributeHandler {
	return ContributeHandler{keeper: k}
}

func (h ContributeHandler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	var msg ContributeMsg
	if err := crowdsale.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.keeper.CheckContribution(ctx, db, msg.Contributor, msg.Amount, msg.Channel); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{GasAllocated: contributeCost}, nil
}

func (h ContributeHandler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	var msg ContributeMsg
	if err := crowdsale.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	receipt, err := h.keeper.Contribute(ctx, db, msg.Contributor, msg.Amount, msg.Channel)
	if err != nil {
		return nil, err
	}
	data, err := receipt.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "receipt")
	}
	log := fmt.Sprintf("accepted %s, change %s, issued %s", receipt.Accepted, receipt.Change, receipt.Issued)
	if receipt.Finalized {
		log += ", sale finalized"
	}
	return &crowdsale.DeliverResult{Data: data, Log: log}, nil
}

// AdminHandler handles the messages managing the sale.
type AdminHandler struct {
	keeper Keeper
}

var _ crowdsale.Handler = AdminHandler{}

func NewAdminHandler(k Keeper) AdminHandler {
	return AdminHandler{keeper: k}
}

func (h AdminHandler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{GasAllocated: adminCost}, nil
}

func (h AdminHandler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *CheckTimeMsg:
		finalized, err := h.keeper.CheckTime(ctx, db)
		if err != nil {
			return nil, err
		}
		if finalized {
			return &crowdsale.DeliverResult{Log: "sale finalized"}, nil
		}
		return &crowdsale.DeliverResult{}, nil
	case *SetTimeMsg:
		if err := h.keeper.SetTime(ctx, db, m.Now); err != nil {
			return nil, err
		}
		return &crowdsale.DeliverResult{Log: "time set to " + m.Now.String()}, nil
	case *ProvisionChannelsMsg:
		first, last, err := h.keeper.ProvisionChannels(ctx, db, m.Count)
		if err != nil {
			return nil, err
		}
		return &crowdsale.DeliverResult{Log: fmt.Sprintf("channels %d to %d provisioned", first, last)}, nil
	}
	return nil, errors.Wrapf(errors.ErrMsg, "unexpected %T", msg)
}
