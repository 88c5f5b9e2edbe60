package multiowned

import (
	"github.com/mixbytes/crowdsale"
	"github.com/mixbytes/crowdsale/errors"
	"github.com/mixbytes/crowdsale/x"
)

// Controller gives other extensions read access to the gates.
type Controller struct {
	auth  x.Authenticator
	gates GateBucket
}

// NewController returns a controller authenticating callers with auth.
func NewController(auth x.Authenticator) Controller {
	return Controller{auth: auth, gates: NewGateBucket()}
}

// Gate returns the gate or ErrNotFound.
func (c Controller) Gate(db crowdsale.ReadOnlyKVStore, name string) (*Gate, error) {
	return c.gates.GetGate(db, name)
}

// IsOwner returns true if the address is an owner of the gate.
func (c Controller) IsOwner(db crowdsale.ReadOnlyKVStore, name string, addr crowdsale.Address) (bool, error) {
	g, err := c.gates.GetGate(db, name)
	if err != nil {
		return false, err
	}
	return g.IsOwner(addr), nil
}

// AmIOwner returns the first owner of the gate authenticated in the
// context. ErrNotOwner is returned when the caller is none of them.
func (c Controller) AmIOwner(ctx crowdsale.Context, db crowdsale.ReadOnlyKVStore, name string) (crowdsale.Address, error) {
	g, err := c.gates.GetGate(db, name)
	if err != nil {
		return nil, err
	}
	return signingOwner(ctx, c.auth, g)
}

func signingOwner(ctx crowdsale.Context, auth x.Authenticator, g *Gate) (crowdsale.Address, error) {
	if owner := x.AnySigner(ctx, auth, g.Owners); owner != nil {
		return owner, nil
	}
	return nil, errors.Wrapf(errors.ErrNotOwner, "gate %q", g.Name)
}
