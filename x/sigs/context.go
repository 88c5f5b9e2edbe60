package sigs

import (
	"context"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/x"
)

type signersKey struct{}

// Only the decorator of this package may attach signers.
func withSigners(ctx crowdsale.Context, signers []crowdsale.Condition) crowdsale.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate exposes the verified transaction signers to the extensions.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the signers of the current transaction, in
// signature order.
func (Authenticate) GetConditions(ctx crowdsale.Context) []crowdsale.Condition {
	signers, _ := ctx.Value(signersKey{}).([]crowdsale.Condition)
	return signers
}

// HasAddress returns true if addr signed the current transaction.
func (a Authenticate) HasAddress(ctx crowdsale.Context, addr crowdsale.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
