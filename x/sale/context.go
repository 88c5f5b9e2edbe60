package sale

import (
	"context"

	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/x"
)

type contextKey int

const (
	contextKeySale contextKey = iota
)

// Condition is used by the sale when it calls the escrow and the token
// ledger. Configure it as their controller.
func Condition() crowdsale.Condition {
	return crowdsale.NewCondition("sale", "module", []byte(singletonKey))
}

// Address of the sale.
func Address() crowdsale.Address {
	return Condition().Address()
}

func withSale(ctx crowdsale.Context) crowdsale.Context {
	return context.WithValue(ctx, contextKeySale, true)
}

// Authenticate gives the sale condition while the sale calls its
// collaborators.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx crowdsale.Context) []crowdsale.Condition {
	if ok, _ := ctx.Value(contextKeySale).(bool); ok {
		return []crowdsale.Condition{Condition()}
	}
	return nil
}

func (a Authenticate) HasAddress(ctx crowdsale.Context, addr crowdsale.Address) bool {
	ok, _ := ctx.Value(contextKeySale).(bool)
	return ok && addr.Equals(Address())
}
