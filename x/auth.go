/*
Package x holds what the crowdsale extensions share: the Authenticator
abstraction and the decorators every transaction passes through.

Extensions never read signatures directly. They ask an Authenticator which
conditions the current call fulfills and compare the derived addresses with
the owners they store.
*/
package x

import (
	"github.com/mixbytes/crowdsale"
)

// Authenticator tells which conditions are fulfilled for a call. Handlers
// take one in their constructor so signature checks and contract
// permissions can be combined freely.
type Authenticator interface {
	GetConditions(crowdsale.Context) []crowdsale.Condition
	HasAddress(crowdsale.Context, crowdsale.Address) bool
}

// MultiAuth authenticates whatever any of its members authenticates.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth combines several authenticators. Conditions are reported in the
// order the authenticators are given.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

func (m MultiAuth) GetConditions(ctx crowdsale.Context) []crowdsale.Condition {
	var conds []crowdsale.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx crowdsale.Context, addr crowdsale.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// AnySigner returns the first candidate authenticated for this call, or nil.
func AnySigner(ctx crowdsale.Context, auth Authenticator, candidates []crowdsale.Address) crowdsale.Address {
	for _, c := range candidates {
		if auth.HasAddress(ctx, c) {
			return c
		}
	}
	return nil
}
