package funds

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
	"github.com/mixbytes/crowdsale/x/cash"
)

// Keeper executes all escrow operations. Every operation authenticates the
// caller with the context, so it can be used directly by another extension
// that authorized itself in the context.
type Keeper struct {
	auth          x.Authenticator
	cash          cash.Controller
	registry      RegistryBucket
	contributions ContributionBucket
}

func NewKeeper(auth x.Authenticator, cashCtrl cash.Controller) Keeper {
	return Keeper{
		auth:          auth,
		cash:          cashCtrl,
		registry:      NewRegistryBucket(),
		contributions: NewContributionBucket(),
	}
}

// Registry returns the escrow registry.
func (k Keeper) Registry(db crowdsale.ReadOnlyKVStore) (*Registry, error) {
	return k.registry.Get(db)
}

// Held returns the value kept in the escrow wallet.
func (k Keeper) Held(db crowdsale.ReadOnlyKVStore) (*coin.Amount, error) {
	return k.cash.Balance(db, EscrowAddress())
}

// Contribution returns the amount recorded for the contributor.
func (k Keeper) Contribution(db crowdsale.ReadOnlyKVStore, contributor crowdsale.Address) (*coin.Amount, error) {
	c, err := k.contributions.Get(db, contributor)
	if err != nil || c == nil {
		return &coin.Amount{}, err
	}
	return c.Amount, nil
}

// Contributors returns every contributor in the first seen order.
func (k Keeper) Contributors(db crowdsale.ReadOnlyKVStore) ([]crowdsale.Address, error) {
	return k.contributions.Ordered(db)
}

// Record moves amount from the contributor's wallet into the escrow and adds
// it to the contributor's entry. Only the controller can record and only
// while gathering.
func (k Keeper) Record(ctx crowdsale.Context, db crowdsale.KVStore, contributor crowdsale.Address, amount *coin.Amount) error {
	reg, err := k.registry.Get(db)
	if err != nil {
		return err
	}
	if !k.auth.HasAddress(ctx, reg.Controller) {
		return errors.Wrap(errors.ErrNotController, "record")
	}
	if reg.State != Gathering {
		return errors.Wrapf(errors.ErrState, "cannot record in %s state", reg.State)
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrZeroValue, "contribution")
	}

	entry, err := k.contributions.Get(db, contributor)
	if err != nil {
		return err
	}
	if entry == nil {
		reg.Contributors++
		entry = &Contribution{Seq: reg.Contributors}
	}
	entry.Amount = entry.Amount.Add(amount)
	reg.Total = reg.Total.Add(amount)

	if err := k.contributions.Save(db, contributor, entry); err != nil {
		return errors.Wrap(err, "save contribution")
	}
	if err := k.registry.Save(db, reg); err != nil {
		return err
	}
	if err := k.cash.MoveCoins(db, contributor, EscrowAddress(), amount); err != nil {
		return errors.Wrap(err, "pay contribution")
	}
	return nil
}

// SetState moves the escrow out of gathering. Only the controller can do
// it, once.
func (k Keeper) SetState(ctx crowdsale.Context, db crowdsale.KVStore, target State) error {
	reg, err := k.registry.Get(db)
	if err != nil {
		return err
	}
	if !k.auth.HasAddress(ctx, reg.Controller) {
		return errors.Wrap(errors.ErrNotController, "set state")
	}
	if reg.State != Gathering || !target.Terminal() {
		return errors.Wrapf(errors.ErrTransition, "%s to %s", reg.State, target)
	}
	reg.State = target
	if err := k.registry.Save(db, reg); err != nil {
		return err
	}
	crowdsale.GetLogger(ctx).Info("escrow state changed", "state", target.String(), "total", reg.Total.String())
	return nil
}

// WithdrawPayments refunds everything recorded for the contributor. The
// entry is zeroed before the value leaves the escrow.
func (k Keeper) WithdrawPayments(ctx crowdsale.Context, db crowdsale.KVStore, contributor crowdsale.Address) (*coin.Amount, error) {
	if !k.auth.HasAddress(ctx, contributor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the contributor can withdraw")
	}
	reg, err := k.registry.Get(db)
	if err != nil {
		return nil, err
	}
	if reg.State != Refunding {
		return nil, errors.Wrapf(errors.ErrState, "cannot withdraw in %s state", reg.State)
	}
	entry, err := k.contributions.Get(db, contributor)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Amount.IsZero() {
		return nil, errors.Wrap(errors.ErrNothingToWithdraw, contributor.String())
	}

	refund := entry.Amount
	entry.Amount = &coin.Amount{}
	if err := k.contributions.Save(db, contributor, entry); err != nil {
		return nil, err
	}
	if reg.Total, err = reg.Total.Sub(refund); err != nil {
		return nil, errors.Wrap(errors.ErrInvariant, "refund exceeds the recorded total")
	}
	if err := k.registry.Save(db, reg); err != nil {
		return nil, err
	}
	if err := k.cash.MoveCoins(db, EscrowAddress(), contributor, refund); err != nil {
		return nil, errors.Wrap(err, "refund")
	}
	return refund, nil
}

// SendValue releases the held value after a successful sale. Only the
// administrator can do it.
func (k Keeper) SendValue(ctx crowdsale.Context, db crowdsale.KVStore, destination crowdsale.Address, amount *coin.Amount) error {
	reg, err := k.registry.Get(db)
	if err != nil {
		return err
	}
	if !k.auth.HasAddress(ctx, reg.Admin) {
		return errors.Wrap(errors.ErrUnauthorized, "send value")
	}
	if reg.State != Success {
		return errors.Wrapf(errors.ErrState, "cannot send value in %s state", reg.State)
	}
	if err := k.cash.MoveCoins(db, EscrowAddress(), destination, amount); err != nil {
		return errors.Wrap(err, "send value")
	}
	return nil
}

// SetController replaces the controller. Only the administrator can do it.
func (k Keeper) SetController(ctx crowdsale.Context, db crowdsale.KVStore, controller crowdsale.Address) error {
	reg, err := k.registry.Get(db)
	if err != nil {
		return err
	}
	if !k.auth.HasAddress(ctx, reg.Admin) {
		return errors.Wrap(errors.ErrUnauthorized, "set controller")
	}
	reg.Controller = controller
	return k.registry.Save(db, reg)
}

// CheckInvariant verifies that the escrow holds exactly the recorded total
// while gathering.
func (k Keeper) CheckInvariant(db crowdsale.ReadOnlyKVStore) error {
	reg, err := k.registry.Get(db)
	if err != nil {
		return err
	}
	if reg.State != Gathering {
		return nil
	}
	held, err := k.Held(db)
	if err != nil {
		return err
	}
	if !held.Equals(reg.Total) {
		return errors.Wrapf(errors.ErrInvariant, "escrow holds %s, recorded %s", held, reg.Total)
	}
	return nil
}
