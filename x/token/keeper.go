package token

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
)

// Keeper executes all ledger operations, authenticating the caller with
// the context.
type Keeper struct {
	auth     x.Authenticator
	ledger   LedgerBucket
	balances BalanceBucket
}

func NewKeeper(auth x.Authenticator) Keeper {
	return Keeper{
		auth:     auth,
		ledger:   NewLedgerBucket(),
		balances: NewBalanceBucket(),
	}
}

func (k Keeper) Ledger(db crowdsale.ReadOnlyKVStore) (*Ledger, error) {
	return k.ledger.Get(db)
}

// Balance returns the units held by the address.
func (k Keeper) Balance(db crowdsale.ReadOnlyKVStore, addr crowdsale.Address) (*coin.Amount, error) {
	return k.balances.Get(db, addr)
}

// Mint creates new units for the beneficiary. Minting nothing is a no-op.
func (k Keeper) Mint(ctx crowdsale.Context, db crowdsale.KVStore, beneficiary crowdsale.Address, amount *coin.Amount) error {
	l, err := k.ledger.Get(db)
	if err != nil {
		return err
	}
	if !k.auth.HasAddress(ctx, l.Controller) {
		return errors.Wrap(errors.ErrNotController, "mint")
	}
	if amount.IsZero() {
		return nil
	}
	bal, err := k.balances.Get(db, beneficiary)
	if err != nil {
		return err
	}
	if err := k.balances.Set(db, beneficiary, bal.Add(amount)); err != nil {
		return err
	}
	l.Supply = l.Supply.Add(amount)
	return k.ledger.Save(db, l)
}

// SetTransfersEnabled unfreezes or freezes transfers between holders.
func (k Keeper) SetTransfersEnabled(ctx crowdsale.Context, db crowdsale.KVStore, enabled bool) error {
	l, err := k.ledger.Get(db)
	if err != nil {
		return err
	}
	if !k.auth.HasAddress(ctx, l.Controller) {
		return errors.Wrap(errors.ErrNotController, "toggle transfers")
	}
	if l.TransfersEnabled == enabled {
		return nil
	}
	l.TransfersEnabled = enabled
	return k.ledger.Save(db, l)
}

// SetController hands the controller role over. Only the administrator can
// do it.
func (k Keeper) SetController(ctx crowdsale.Context, db crowdsale.KVStore, controller crowdsale.Address) error {
	l, err := k.ledger.Get(db)
	if err != nil {
		return err
	}
	if !k.auth.HasAddress(ctx, l.Admin) {
		return errors.Wrap(errors.ErrUnauthorized, "set controller")
	}
	l.Controller = controller
	return k.ledger.Save(db, l)
}

// Transfer moves units between holders. The source must be authenticated
// and transfers must be enabled.
func (k Keeper) Transfer(ctx crowdsale.Context, db crowdsale.KVStore, src, dest crowdsale.Address, amount *coin.Amount) error {
	if !k.auth.HasAddress(ctx, src) {
		return errors.Wrap(errors.ErrUnauthorized, "transfer source")
	}
	l, err := k.ledger.Get(db)
	if err != nil {
		return err
	}
	if !l.TransfersEnabled {
		return errors.Wrap(errors.ErrState, "transfers are frozen")
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrZeroValue, "transfer")
	}
	from, err := k.balances.Get(db, src)
	if err != nil {
		return err
	}
	left, err := from.Sub(amount)
	if err != nil {
		return err
	}
	if err := k.balances.Set(db, src, left); err != nil {
		return err
	}
	to, err := k.balances.Get(db, dest)
	if err != nil {
		return err
	}
	return k.balances.Set(db, dest, to.Add(amount))
}
