package multiowned

import (
	"fmt"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/gconf"
	"github.com/mixbytes/crowdsale/x"
	common "github.com/tendermint/tendermint/libs/common"
)

const (
	proposeCost int64 = 200
	adminCost   int64 = 100
)

// RegisterMsgs adds the messages of this extension to the registry.
func RegisterMsgs(reg *crowdsale.MsgRegistry) {
	reg.Register(
		&ProposeMsg{},
		&RevokeMsg{},
		&AddOwnerMsg{},
		&RemoveOwnerMsg{},
		&ChangeOwnerMsg{},
		&ChangeRequirementMsg{},
		&UpdateConfigurationMsg{},
	)
}

// RegisterRoutes will instantiate and register all handlers in this
// package. Confirmed actions are decoded with reg and run by exec.
func RegisterRoutes(r crowdsale.Registry, auth x.Authenticator, reg *crowdsale.MsgRegistry, exec Executor) {
	r.Handle(ProposeMsg{}.Path(), NewProposeHandler(auth, reg, exec))
	r.Handle(RevokeMsg{}.Path(), NewRevokeHandler(auth))
	admin := NewAdminHandler(auth)
	r.Handle(AddOwnerMsg{}.Path(), admin)
	r.Handle(RemoveOwnerMsg{}.Path(), admin)
	r.Handle(ChangeOwnerMsg{}.Path(), admin)
	r.Handle(ChangeRequirementMsg{}.Path(), admin)
	r.Handle(UpdateConfigurationMsg{}.Path(), gconf.NewUpdateConfigurationHandler(pkg, &Configuration{}, auth))
}

// RegisterQuery registers the gates under "/multiowned/gates" and the
// pending operations under "/multiowned/pending".
func RegisterQuery(qr crowdsale.QueryRouter) {
	NewGateBucket().Register("multiowned/gates", qr)
	NewPendingBucket().Register("multiowned/pending", qr)
}

// ProposeHandler records confirmations and executes actions that reached
// the threshold.
type ProposeHandler struct {
	auth    x.Authenticator
	reg     *crowdsale.MsgRegistry
	exec    Executor
	gates   GateBucket
	pending PendingBucket
}

var _ crowdsale.Handler = ProposeHandler{}

func NewProposeHandler(auth x.Authenticator, reg *crowdsale.MsgRegistry, exec Executor) ProposeHandler {
	return ProposeHandler{
		auth:    auth,
		reg:     reg,
		exec:    exec,
		gates:   NewGateBucket(),
		pending: NewPendingBucket(),
	}
}

func (h ProposeHandler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	msg, gate, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, _, err := h.confirmation(ctx, db, gate, msg, owner); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{GasAllocated: proposeCost}, nil
}

func (h ProposeHandler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	msg, gate, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	purged, err := h.pending.PurgeExpired(db, gate.Name, crowdsale.MustBlockTime(ctx), conf.Expiry)
	if err != nil {
		return nil, errors.Wrap(err, "purge expired operations")
	}
	if purged > 0 {
		crowdsale.GetLogger(ctx).Info("expired operations purged", "gate", gate.Name, "count", purged)
	}
	fp := Fingerprint(gate.Name, msg.Action)
	op, stored, err := h.confirmation(ctx, db, gate, msg, owner)
	if err != nil {
		return nil, err
	}
	op.Confirmers = append(op.Confirmers, owner)
	confirmations.WithLabelValues(gate.Name).Inc()

	if len(op.Confirmers) < int(gate.Required) {
		if err := h.pending.Save(db, op); err != nil {
			return nil, errors.Wrap(err, "save pending operation")
		}
		return &crowdsale.DeliverResult{
			Data: fp,
			Log:  fmt.Sprintf("confirmed %d of %d", len(op.Confirmers), gate.Required),
		}, nil
	}

	if stored {
		if err := h.pending.Remove(db, gate.Name, fp); err != nil {
			return nil, errors.Wrap(err, "remove pending operation")
		}
	}
	action, err := h.reg.DecodeEnvelope(op.Action)
	if err != nil {
		return nil, errors.Wrap(err, "action")
	}
	res, err := h.exec(withGate(ctx, gate.Name), db, action)
	if err != nil {
		return nil, errors.Wrapf(err, "execute %s", action.Path())
	}
	executions.WithLabelValues(gate.Name, action.Path()).Inc()
	crowdsale.GetLogger(ctx).Info("gate action executed", "gate", gate.Name, "action", action.Path())

	res.Tags = append(res.Tags, common.KVPair{Key: []byte("gate"), Value: []byte(gate.Name)})
	if res.Log == "" {
		res.Log = "executed " + action.Path()
	}
	return res, nil
}

// confirmation returns the live operation the owner is about to confirm, or
// a fresh one if there is none. stored reports whether it exists in the
// database. An expired operation counts as absent.
func (h ProposeHandler) confirmation(ctx crowdsale.Context, db crowdsale.ReadOnlyKVStore, gate *Gate, msg *ProposeMsg, owner crowdsale.Address) (op *PendingOperation, stored bool, err error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, false, errors.Wrap(err, "configuration")
	}
	now := crowdsale.MustBlockTime(ctx)
	op, err = h.pending.GetOperation(db, gate.Name, Fingerprint(gate.Name, msg.Action))
	if err != nil {
		return nil, false, errors.Wrap(err, "pending operation")
	}
	stored = op != nil
	if op == nil || op.Expired(now, conf.Expiry) {
		op = &PendingOperation{Gate: gate.Name, Action: msg.Action, CreatedAt: now}
	}
	if op.HasConfirmed(owner) {
		return nil, false, errors.Wrapf(errors.ErrAlreadyConfirmed, "owner %s", owner)
	}
	return op, stored, nil
}

// validate returns the message, the gate and the owner proposing.
func (h ProposeHandler) validate(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*ProposeMsg, *Gate, crowdsale.Address, error) {
	var msg ProposeMsg
	if err := crowdsale.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	gate, err := h.gates.GetGate(db, msg.Gate)
	if err != nil {
		return nil, nil, nil, err
	}
	owner, err := signingOwner(ctx, h.auth, gate)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := h.reg.DecodeEnvelope(msg.Action); err != nil {
		return nil, nil, nil, errors.Wrap(err, "action")
	}
	return &msg, gate, owner, nil
}

// RevokeHandler withdraws a confirmation.
type RevokeHandler struct {
	auth    x.Authenticator
	gates   GateBucket
	pending PendingBucket
}

var _ crowdsale.Handler = RevokeHandler{}

func NewRevokeHandler(auth x.Authenticator) RevokeHandler {
	return RevokeHandler{
		auth:    auth,
		gates:   NewGateBucket(),
		pending: NewPendingBucket(),
	}
}

func (h RevokeHandler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{GasAllocated: adminCost}, nil
}

func (h RevokeHandler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	op, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	if op.Expired(crowdsale.MustBlockTime(ctx), conf.Expiry) {
		return nil, errors.Wrap(errors.ErrExpired, "pending operation")
	}

	confirmers := make([]crowdsale.Address, 0, len(op.Confirmers))
	for _, c := range op.Confirmers {
		if !c.Equals(owner) {
			confirmers = append(confirmers, c)
		}
	}
	fp := Fingerprint(op.Gate, op.Action)
	if len(confirmers) == 0 {
		if err := h.pending.Remove(db, op.Gate, fp); err != nil {
			return nil, err
		}
		return &crowdsale.DeliverResult{Log: "operation dropped"}, nil
	}
	op.Confirmers = confirmers
	if err := h.pending.Save(db, op); err != nil {
		return nil, err
	}
	return &crowdsale.DeliverResult{Log: fmt.Sprintf("%d confirmations left", len(confirmers))}, nil
}

func (h RevokeHandler) validate(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*PendingOperation, crowdsale.Address, error) {
	var msg RevokeMsg
	if err := crowdsale.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	gate, err := h.gates.GetGate(db, msg.Gate)
	if err != nil {
		return nil, nil, err
	}
	owner, err := signingOwner(ctx, h.auth, gate)
	if err != nil {
		return nil, nil, err
	}
	op, err := h.pending.GetOperation(db, msg.Gate, msg.OperationID)
	if err != nil {
		return nil, nil, err
	}
	if op == nil {
		return nil, nil, errors.Wrap(errors.ErrNotFound, "pending operation")
	}
	if !op.HasConfirmed(owner) {
		return nil, nil, errors.Wrap(errors.ErrState, "operation not confirmed by this owner")
	}
	return op, owner, nil
}

// AdminHandler changes the owner set or the requirement of a gate. These
// messages are accepted only when executed by the gate they modify. Every
// change drops the pending operations of the gate.
type AdminHandler struct {
	auth    x.Authenticator
	gates   GateBucket
	pending PendingBucket
}

var _ crowdsale.Handler = AdminHandler{}

func NewAdminHandler(auth x.Authenticator) AdminHandler {
	return AdminHandler{
		auth:    auth,
		gates:   NewGateBucket(),
		pending: NewPendingBucket(),
	}
}

func (h AdminHandler) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.CheckResult, error) {
	if _, _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crowdsale.CheckResult{GasAllocated: adminCost}, nil
}

func (h AdminHandler) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*crowdsale.DeliverResult, error) {
	gate, change, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.gates.Save(db, gate); err != nil {
		return nil, err
	}
	dropped, err := h.pending.Clear(db, gate.Name)
	if err != nil {
		return nil, errors.Wrap(err, "clear pending operations")
	}
	ownerChanges.WithLabelValues(gate.Name, change).Inc()
	crowdsale.GetLogger(ctx).Info("gate changed", "gate", gate.Name, "change", change, "dropped", dropped)
	return &crowdsale.DeliverResult{
		Log: fmt.Sprintf("%s: %d of %d owners, %d pending dropped", change, gate.Required, len(gate.Owners), dropped),
	}, nil
}

// apply returns the gate with the change applied, without saving it.
func (h AdminHandler) apply(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (*Gate, string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, "", err
	}
	if err := msg.Validate(); err != nil {
		return nil, "", err
	}

	var name string
	switch m := msg.(type) {
	case *AddOwnerMsg:
		name = m.Gate
	case *RemoveOwnerMsg:
		name = m.Gate
	case *ChangeOwnerMsg:
		name = m.Gate
	case *ChangeRequirementMsg:
		name = m.Gate
	default:
		return nil, "", errors.Wrapf(errors.ErrMsg, "unexpected %T", msg)
	}
	if !h.auth.HasAddress(ctx, Address(name)) {
		return nil, "", errors.Wrapf(errors.ErrUnauthorized, "gate %q did not confirm", name)
	}
	g, err := h.gates.GetGate(db, name)
	if err != nil {
		return nil, "", err
	}

	switch m := msg.(type) {
	case *AddOwnerMsg:
		if g.IsOwner(m.Owner) {
			return nil, "", errors.Wrapf(errors.ErrDuplicate, "owner %s", m.Owner)
		}
		if len(g.Owners) >= MaxOwners {
			return nil, "", errors.Wrap(errors.ErrInvariant, "owner set is full")
		}
		g.Owners = append(g.Owners, m.Owner)
		return g, "add_owner", nil
	case *RemoveOwnerMsg:
		i := g.OwnerIndex(m.Owner)
		if i < 0 {
			return nil, "", errors.Wrapf(errors.ErrNotOwner, "owner %s", m.Owner)
		}
		if len(g.Owners)-1 < int(g.Required) {
			return nil, "", errors.Wrapf(errors.ErrInvariant, "%d owners left, %d required", len(g.Owners)-1, g.Required)
		}
		g.Owners = append(g.Owners[:i], g.Owners[i+1:]...)
		return g, "remove_owner", nil
	case *ChangeOwnerMsg:
		i := g.OwnerIndex(m.From)
		if i < 0 {
			return nil, "", errors.Wrapf(errors.ErrNotOwner, "owner %s", m.From)
		}
		if g.IsOwner(m.To) {
			return nil, "", errors.Wrapf(errors.ErrDuplicate, "owner %s", m.To)
		}
		g.Owners[i] = m.To
		return g, "change_owner", nil
	case *ChangeRequirementMsg:
		if m.Required == 0 || int(m.Required) > len(g.Owners) {
			return nil, "", errors.Wrapf(errors.ErrRequirement, "%d of %d owners", m.Required, len(g.Owners))
		}
		g.Required = m.Required
		return g, "change_requirement", nil
	}
	return nil, "", errors.Wrapf(errors.ErrMsg, "unexpected %T", msg)
}
