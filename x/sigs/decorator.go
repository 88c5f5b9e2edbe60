package sigs

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
)

// RegisterQuery publishes the user bucket under "/auth".
func RegisterQuery(qr crowdsale.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a SignedTx and records the signers in
// the context for Authenticate. Transactions of other types pass untouched.
type Decorator struct {
	allowUnsigned bool
}

var _ crowdsale.Decorator = Decorator{}

// NewDecorator returns a decorator rejecting signed transactions that carry
// no signature at all.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets transactions without any signature through. They
// reach the handler with no authenticated signer.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowUnsigned = true
	return d
}

func (d Decorator) Check(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Checker) (*crowdsale.CheckResult, error) {
	ctx, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx, next crowdsale.Deliverer) (*crowdsale.DeliverResult, error) {
	ctx, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) verify(ctx crowdsale.Context, db crowdsale.KVStore, tx crowdsale.Tx) (crowdsale.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(db, stx, crowdsale.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowUnsigned {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
