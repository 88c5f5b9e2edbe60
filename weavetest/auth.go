package weavetest

import (
	"context"
	"fmt"

	"github.com/mixbytes/crowdsale"
)

// Auth authenticates a fixed set of conditions, whatever the context.
// Signer is a shortcut for the single signer case and is listed first.
type Auth struct {
	Signer  crowdsale.Condition
	Signers []crowdsale.Condition
}

func (a *Auth) GetConditions(crowdsale.Context) []crowdsale.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append([]crowdsale.Condition{a.Signer}, a.Signers...)
}

func (a *Auth) HasAddress(ctx crowdsale.Context, addr crowdsale.Address) bool {
	return anyMatches(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates whatever conditions SetConditions attached to the
// context. Two CtxAuth with different keys do not see each other.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx crowdsale.Context, conds ...crowdsale.Condition) crowdsale.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx crowdsale.Context) []crowdsale.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []crowdsale.Condition:
		return v
	default:
		panic(fmt.Sprintf("unexpected %T stored under auth key %q", v, a.Key))
	}
}

func (a *CtxAuth) HasAddress(ctx crowdsale.Context, addr crowdsale.Address) bool {
	return anyMatches(a.GetConditions(ctx), addr)
}

func anyMatches(conds []crowdsale.Condition, addr crowdsale.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
