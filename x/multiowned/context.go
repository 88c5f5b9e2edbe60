package multiowned

import (
	"context"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/x"
)

type contextKey int

const (
	contextKeyGate contextKey = iota
)

// withGate authorizes the gate condition for the rest of the call.
func withGate(ctx crowdsale.Context, name string) crowdsale.Context {
	val, _ := ctx.Value(contextKeyGate).([]crowdsale.Condition)
	conds := append(append([]crowdsale.Condition(nil), val...), Condition(name))
	return context.WithValue(ctx, contextKeyGate, conds)
}

// Authenticate gives the conditions of gates whose confirmed action is
// being executed.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the gates that authorized the current call.
func (Authenticate) GetConditions(ctx crowdsale.Context) []crowdsale.Condition {
	val, _ := ctx.Value(contextKeyGate).([]crowdsale.Condition)
	return val
}

// HasAddress returns true if the address is one of the authorizing gates.
func (a Authenticate) HasAddress(ctx crowdsale.Context, addr crowdsale.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
