package cash

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/coin"
	"github.com/mixbytes/crowdsale/errors"
)

// Controller is the functionality other extensions use to move value.
type Controller interface {
	Balance(db crowdsale.ReadOnlyKVStore, addr crowdsale.Address) (*coin.Amount, error)
	MoveCoins(db crowdsale.KVStore, src, dest crowdsale.Address, amount *coin.Amount) error
}

// BaseController is the wallet bucket backed Controller.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the value held by the address.
func (c BaseController) Balance(db crowdsale.ReadOnlyKVStore, addr crowdsale.Address) (*coin.Amount, error) {
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Balance.Clone(), nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't have sufficient value, it fails.
func (c BaseController) MoveCoins(db crowdsale.KVStore, src, dest crowdsale.Address, amount *coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrZeroValue, "move coins")
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	left, err := sender.Balance.Sub(amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s is %s", src, sender.Balance)
	}
	sender.Balance = left
	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}

	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	recipient.Balance = recipient.Balance.Add(amount)
	return c.bucket.Save(db, dest, recipient)
}

// IssueCoins adds the given amount to the destination wallet. It is only
// used when loading the genesis.
func (c BaseController) IssueCoins(db crowdsale.KVStore, dest crowdsale.Address, amount *coin.Amount) error {
	w, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	w.Balance = w.Balance.Add(amount)
	return c.bucket.Save(db, dest, w)
}
